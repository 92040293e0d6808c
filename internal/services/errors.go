package services

import "errors"

// 领域错误以机器可读短码表示，handlers 据此映射 HTTP 状态码。
var (
	ErrEventNotFound        = errors.New("event_not_found")
	ErrEventDayNotFound     = errors.New("event_day_not_found")
	ErrRegistrationNotFound = errors.New("registration_not_found")
	ErrMemberNotFound       = errors.New("member_not_found")
	ErrHostNotFound         = errors.New("host_not_found")
	ErrAssignmentNotFound   = errors.New("assignment_not_found")
	ErrArrangementNotFound  = errors.New("arrangement_not_found")
	ErrUserNotFound         = errors.New("user_not_found")

	ErrPhoneTaken          = errors.New("phone_taken")
	ErrHostPhoneTaken      = errors.New("host_phone_taken")
	ErrBadPassword         = errors.New("bad_password")
	ErrWeakPassword        = errors.New("weak_password")
	ErrUserInactive        = errors.New("user_inactive")
	ErrInvalidToken        = errors.New("invalid_token")
	ErrIndividualMembers   = errors.New("individual_requires_one_member")
	ErrMemberCountMismatch = errors.New("member_count_mismatch")
	ErrMemberCancelled     = errors.New("member_cancelled")
	ErrAlreadyAssigned     = errors.New("member_already_assigned_for_day")
	ErrHostFull            = errors.New("host_capacity_exceeded")
	ErrHostHasAssignments  = errors.New("host_has_assignments")
	ErrPairExists          = errors.New("arrangement_exists")
	ErrReversePairExists   = errors.New("reverse_arrangement_exists")
	ErrSamePairMember      = errors.New("owner_and_co_traveler_identical")
)
