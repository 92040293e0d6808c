package storage

import (
	"time"

	"gorm.io/gorm"
)

// 本文件定义平台使用的所有 GORM 模型，集中管理数据结构。
// 模型同时携带 json 标签，作为 API 输出的标准形态。

// 注册成员生命周期状态。
const (
	StatusRegistered = "registered"
	StatusWaiting    = "waiting"
	StatusConfirmed  = "confirmed"
	StatusCancelled  = "cancelled"
)

// 报名类型与出行方式。
const (
	RegistrationIndividual = "individual"
	RegistrationGroup      = "group"

	TransportPublic  = "public"
	TransportPrivate = "private"

	GenderMale   = "M"
	GenderFemale = "F"
)

// 住宿家庭的卫生间设施与性别偏好取值。
const (
	ToiletIndian  = "indian"
	ToiletWestern = "western"
	ToiletBoth    = "both"

	GenderPrefMale   = "male"
	GenderPrefFemale = "female"
	GenderPrefBoth   = "both"
)

// 管理账号类型。
const (
	UserTypeOrganiser = "organiser"
	UserTypeAdmin     = "admin"
)

// User 为后台管理账号（主办方/管理员），手机号唯一用于登录。
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	PhoneNumber  string    `gorm:"size:32;uniqueIndex" json:"phone_number"`
	PasswordHash string    `gorm:"size:255" json:"-"` // bcrypt 哈希
	Name         string    `gorm:"size:190" json:"name"`
	Email        string    `gorm:"size:190" json:"email"`
	UserType     string    `gorm:"size:32;index" json:"user_type"` // organiser | admin
	IsActive     bool      `gorm:"index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Event 为一次多日活动的主记录。
type Event struct {
	ID                    string     `gorm:"primaryKey;size:36" json:"id"`
	EventName             string     `gorm:"size:255" json:"event_name"`
	StartDate             time.Time  `gorm:"type:date" json:"start_date"`
	EndDate               time.Time  `gorm:"type:date" json:"end_date"`
	LocationName          string     `gorm:"size:255" json:"location_name"`
	LocationMapLink       string     `gorm:"size:255" json:"location_map_link"`
	Description           string     `gorm:"type:text" json:"description"`
	NGO                   string     `gorm:"size:255" json:"ngo"`
	IsActive              bool       `gorm:"index" json:"is_active"`
	AllowedRegistration   int        `json:"allowed_registration"` // 0 表示不限制
	RegistrationStartDate *time.Time `gorm:"type:date" json:"registration_start_date"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	Days []EventDay `gorm:"foreignKey:EventID" json:"event_days,omitempty"`
}

// EventDay 为活动中的某一天，含每日餐食供给与地点。
type EventDay struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	EventID           string    `gorm:"size:36;index" json:"event_id"`
	EventDate         time.Time `gorm:"type:date;index" json:"event_date"`
	BreakfastProvided bool      `json:"breakfast_provided"`
	LunchProvided     bool      `json:"lunch_provided"`
	DinnerProvided    bool      `json:"dinner_provided"`
	LocationName      string    `gorm:"size:255" json:"location_name"`
	DailyNotes        string    `gorm:"type:text" json:"daily_notes"`
	CreatedAt         time.Time `json:"created_at"`
}

// Registration 为一次报名（个人或团体），成员挂在其下。
// 主键保持自增整数（对外作为小组编号使用）。
type Registration struct {
	ID                  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID             string    `gorm:"size:36;index" json:"event_id"`
	RegistrationType    string    `gorm:"size:32" json:"registration_type"` // individual | group
	NumberOfMembers     int       `json:"number_of_members"`
	TransportationMode  string    `gorm:"size:32" json:"transportation_mode"` // public | private
	HasEmptySeats       bool      `json:"has_empty_seats"`
	AvailableSeatsCount int       `json:"available_seats_count"`
	Notes               string    `gorm:"type:text" json:"notes"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Members          []RegistrationMember `gorm:"foreignKey:RegistrationID" json:"members,omitempty"`
	DailyPreferences []DailyPreference    `gorm:"foreignKey:RegistrationID" json:"daily_preferences,omitempty"`
}

// RegistrationMember 为单个参与者，状态驱动住宿分配与统计口径。
type RegistrationMember struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	RegistrationID      uint64    `gorm:"index" json:"registration_id"`
	PhoneNumber         string    `gorm:"size:32;index" json:"phone_number"`
	Name                string    `gorm:"size:255" json:"name"`
	Email               string    `gorm:"size:190" json:"email"`
	City                string    `gorm:"size:190" json:"city"`
	Age                 int       `json:"age"`
	Gender              string    `gorm:"size:1" json:"gender"` // M | F
	Language            string    `gorm:"size:64" json:"language"`
	FloorPreference     string    `gorm:"size:64" json:"floor_preference"`
	SpecialRequirements string    `gorm:"type:text" json:"special_requirements"`
	Status              string    `gorm:"size:16;index" json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DailyPreference 记录某报名在某活动日的用餐/住宿偏好。
type DailyPreference struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	EventDayID          string    `gorm:"size:36;index" json:"event_day_id"`
	RegistrationID      uint64    `gorm:"index" json:"registration_id"`
	StayingWithGroup    bool      `json:"staying_with_group"`
	DinnerAtHost        bool      `json:"dinner_at_host"`
	BreakfastAtHost     bool      `json:"breakfast_at_host"`
	LunchWithGroup      bool      `json:"lunch_with_group"`
	PhysicalLimitations string    `gorm:"type:text" json:"physical_limitations"`
	ToiletPreference    string    `gorm:"size:16" json:"toilet_preference"` // indian | western
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Host 为某活动日提供住宿的当地家庭，床位容量有限。
type Host struct {
	ID                    string    `gorm:"primaryKey;size:36" json:"id"`
	EventID               string    `gorm:"size:36;index" json:"event_id"`
	EventDayID            string    `gorm:"size:36;index" json:"event_day_id"`
	Name                  string    `gorm:"size:255" json:"name"`
	PhoneNo               int64     `gorm:"index" json:"phone_no"`
	PlaceName             string    `gorm:"size:255" json:"place_name"`
	MaxParticipants       int       `json:"max_participants"`
	ToiletFacilities      string    `gorm:"size:16" json:"toilet_facilities"` // indian | western | both
	GenderPreference      string    `gorm:"size:16" json:"gender_preference"` // male | female | both
	FacilitiesDescription string    `gorm:"type:text" json:"facilities_description"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// HostAssignment 把一名成员在某活动日分配到某住宿家庭；
// 同一成员同一天最多一条。
type HostAssignment struct {
	ID                   string    `gorm:"primaryKey;size:36" json:"id"`
	HostID               string    `gorm:"size:36;index" json:"host_id"`
	RegistrationMemberID string    `gorm:"size:36;index" json:"registration_member_id"`
	EventDayID           string    `gorm:"size:36;index" json:"event_day_id"`
	AssignmentNotes      string    `gorm:"type:text" json:"assignment_notes"`
	AssignedBy           string    `gorm:"size:36;index" json:"assigned_by"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// VehicleSharing 为两名成员之间的私家车拼车配对。
type VehicleSharing struct {
	ID                   string    `gorm:"primaryKey;size:36" json:"id"`
	VehicleOwnerMemberID string    `gorm:"size:36;index" json:"vehicle_owner_member_id"`
	CoTravelerMemberID   string    `gorm:"size:36;index" json:"co_traveler_member_id"`
	SharingNotes         string    `gorm:"type:text" json:"sharing_notes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// LogRecord 为后台敏感操作的审计日志。
type LogRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	Level       string    `gorm:"size:16;index" json:"level"`
	Event       string    `gorm:"size:64;index" json:"event"`
	UserID      *string   `gorm:"size:36;index" json:"user_id"`
	Description string    `gorm:"type:text" json:"description"`
	IPAddress   string    `gorm:"size:64" json:"ip_address"`
	RequestID   string    `gorm:"size:64;index" json:"request_id"`
}

// AutoMigrate 执行数据库自动迁移；测试亦通过它建表。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{}, &Event{}, &EventDay{},
		&Registration{}, &RegistrationMember{}, &DailyPreference{},
		&Host{}, &HostAssignment{}, &VehicleSharing{}, &LogRecord{},
	)
}
