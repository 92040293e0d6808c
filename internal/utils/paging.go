// Package utils 提供与业务无关的小工具函数。
package utils

import "strconv"

// PageParams 把查询串中的 page/page_size 解析为安全取值：
// page 最小为 1；page_size 超出 [1, max] 时回落 def。
func PageParams(pageStr, sizeStr string, def, max int) (page, size int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(sizeStr)
	if size < 1 || size > max {
		size = def
	}
	return page, size
}

// OffsetLimit 把 skip/limit 查询参数解析为非负偏移与受限条数。
func OffsetLimit(skipStr, limitStr string, def, max int) (skip, limit int) {
	skip, _ = strconv.Atoi(skipStr)
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 || limit > max {
		limit = def
	}
	return skip, limit
}
