package youtube

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// 参与会话的Cookie白名单，其余条目加载后忽略
var cookieWhitelist = map[string]bool{
	"LOGIN_INFO":        true,
	"__Secure-1PSID":    true,
	"__Secure-3PSID":    true,
	"__Secure-1PAPISID": true,
	"__Secure-3PAPISID": true,
	"__Secure-1PSIDTS":  true,
	"__Secure-3PSIDTS":  true,
	"SAPISID":           true,
}

// sessionTokenCookieName 刷新后的会话令牌以合成Cookie条目持久化
const sessionTokenCookieName = "SESSION_TOKEN"

// Cookie 单个Cookie条目
type Cookie struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	Expires           int64
	Name              string
	Value             string
	HTTPOnly          bool
}

// CookieStore Netscape cookies.txt 格式的Cookie存储
type CookieStore struct {
	path    string
	cookies []*Cookie
}

// NewCookieStore 创建Cookie存储
func NewCookieStore(path string) *CookieStore {
	return &CookieStore{path: path}
}

// Load 从文件加载
// 支持 #HttpOnly_ 前缀行，其余注释行和空行跳过
func (s *CookieStore) Load() error {
	file, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	s.cookies = nil
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		httpOnly := false
		if strings.HasPrefix(line, "#HttpOnly_") {
			httpOnly = true
			line = strings.TrimPrefix(line, "#HttpOnly_")
		} else if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			continue
		}

		expires, _ := strconv.ParseInt(fields[4], 10, 64)
		s.cookies = append(s.cookies, &Cookie{
			Domain:            fields[0],
			IncludeSubdomains: strings.EqualFold(fields[1], "TRUE"),
			Path:              fields[2],
			Secure:            strings.EqualFold(fields[3], "TRUE"),
			Expires:           expires,
			Name:              fields[5],
			Value:             fields[6],
			HTTPOnly:          httpOnly,
		})
	}
	return scanner.Err()
}

// Cookies 返回全部条目
func (s *CookieStore) Cookies() []*Cookie {
	return s.cookies
}

// Get 按名称取值，不存在返回空串
func (s *CookieStore) Get(name string) string {
	for _, c := range s.cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// Upsert 按名称更新或追加条目
func (s *CookieStore) Upsert(cookie *Cookie) {
	for i, c := range s.cookies {
		if c.Name == cookie.Name && c.Domain == cookie.Domain {
			s.cookies[i] = cookie
			return
		}
	}
	s.cookies = append(s.cookies, cookie)
}

// Save 写回文件
func (s *CookieStore) Save() error {
	var b strings.Builder
	b.WriteString("# Netscape HTTP Cookie File\n")
	for _, c := range s.cookies {
		if c.HTTPOnly {
			b.WriteString("#HttpOnly_")
		}
		b.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			c.Domain,
			boolField(c.IncludeSubdomains),
			c.Path,
			boolField(c.Secure),
			c.Expires,
			c.Name,
			c.Value,
		))
	}
	return os.WriteFile(s.path, []byte(b.String()), 0600)
}

func boolField(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
