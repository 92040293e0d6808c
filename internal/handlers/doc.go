// Package handlers 装配 HTTP 路由与请求处理逻辑，聚合各领域服务。
// 处理函数只做参数绑定与错误映射，业务规则全部在 services 层。
package handlers
