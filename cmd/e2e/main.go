package main

// 端到端巡检客户端：对运行中的服务执行一轮最小业务闭环
// （健康检查 → 登录 → 建活动 → 报名 → 检索 → 看板），
// 用于部署后的冒烟验证。只依赖标准库 HTTP 客户端。

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var verbose bool

func banner(title string) {
	log.Printf("\n=== %s ===", title)
}

func step(format string, args ...interface{}) {
	log.Printf(" • "+format, args...)
}

type scenario struct {
	client *http.Client
	base   string
	token  string
}

func (s *scenario) do(method, path string, body interface{}, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if verbose {
		log.Printf("   %s %s -> %d %s", method, path, resp.StatusCode, string(raw))
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(raw))
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func main() {
	var (
		base     string
		phone    string
		password string
	)
	flag.StringVar(&base, "base", "http://127.0.0.1:8080", "服务基础地址")
	flag.StringVar(&phone, "phone", "9900000000", "登录手机号")
	flag.StringVar(&password, "password", "123465", "登录口令")
	flag.BoolVar(&verbose, "v", false, "打印每次请求的响应")
	flag.Parse()

	s := &scenario{client: &http.Client{Timeout: 10 * time.Second}, base: base}

	banner("健康检查")
	if err := s.do("GET", "/healthz", nil, nil); err != nil {
		log.Fatalf("healthz failed: %v", err)
	}
	step("healthz ok")

	banner("登录")
	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.do("POST", "/api/v1/users/login", map[string]string{
		"phone_number": phone, "password": password,
	}, &loginResp); err != nil {
		log.Fatalf("login failed: %v", err)
	}
	s.token = loginResp.AccessToken
	step("token acquired")

	banner("创建活动")
	today := time.Now().Format("2006-01-02")
	var ev struct {
		ID   string `json:"id"`
		Days []struct {
			ID string `json:"id"`
		} `json:"event_days"`
	}
	if err := s.do("POST", "/api/v1/events", map[string]interface{}{
		"event_name":    fmt.Sprintf("Smoke Event %d", time.Now().Unix()),
		"start_date":    today + "T00:00:00Z",
		"end_date":      today + "T00:00:00Z",
		"location_name": "Smoke Town",
		"is_active":     true,
		"event_days": []map[string]interface{}{
			{"event_date": today + "T00:00:00Z", "breakfast_provided": true, "lunch_provided": true, "dinner_provided": true, "location_name": "Smoke Town"},
		},
	}, &ev); err != nil {
		log.Fatalf("create event failed: %v", err)
	}
	step("event %s with %d day(s)", ev.ID, len(ev.Days))

	banner("创建报名")
	memberPhone := fmt.Sprintf("98%08d", time.Now().Unix()%100000000)
	var reg struct {
		ID uint64 `json:"id"`
	}
	if err := s.do("POST", "/api/v1/registrations", map[string]interface{}{
		"event_id":            ev.ID,
		"registration_type":   "individual",
		"number_of_members":   1,
		"transportation_mode": "public",
		"members": []map[string]interface{}{
			{"phone_number": memberPhone, "name": "Smoke Tester", "city": "Testville", "age": 30, "gender": "M"},
		},
	}, &reg); err != nil {
		log.Fatalf("create registration failed: %v", err)
	}
	step("registration #%d", reg.ID)

	banner("参与者检索")
	var search struct {
		RegistrationID uint64 `json:"registration_id"`
	}
	if err := s.do("GET", fmt.Sprintf("/api/v1/registrations/search?event_id=%s&phone_number=%s", ev.ID, memberPhone), nil, &search); err != nil {
		log.Fatalf("search failed: %v", err)
	}
	if search.RegistrationID != reg.ID {
		log.Fatalf("search returned registration %d, want %d", search.RegistrationID, reg.ID)
	}
	step("found registration #%d by phone", search.RegistrationID)

	banner("活动看板")
	var dash struct {
		Summary struct {
			TotalRegistrations int64 `json:"total_registrations"`
		} `json:"summary"`
	}
	if err := s.do("GET", "/api/v1/dashboard/event/"+ev.ID, nil, &dash); err != nil {
		log.Fatalf("dashboard failed: %v", err)
	}
	step("dashboard: %d registration(s)", dash.Summary.TotalRegistrations)

	banner("完成")
	log.Println("all smoke checks passed")
}
