package youtube

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCookiesTxt = `# Netscape HTTP Cookie File
# This is a generated file! Do not edit.

.youtube.com	TRUE	/	TRUE	1800000000	SAPISID	sapisid-value
.youtube.com	TRUE	/	TRUE	1800000000	__Secure-3PAPISID	3papisid-value
#HttpOnly_.youtube.com	TRUE	/	TRUE	1800000000	__Secure-3PSID	3psid-value
.youtube.com	TRUE	/	FALSE	1800000000	PREF	tz=UTC
broken line without tabs
`

func writeTempCookies(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCookieStoreLoad(t *testing.T) {
	store := NewCookieStore(writeTempCookies(t, sampleCookiesTxt))
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	// 注释行、空行、字段数不对的行都跳过，其余全部加载
	if len(store.Cookies()) != 4 {
		t.Fatalf("期望4条Cookie，实际%d条", len(store.Cookies()))
	}
	if store.Get("SAPISID") != "sapisid-value" {
		t.Errorf("SAPISID 取值不符: %q", store.Get("SAPISID"))
	}
	if store.Get("不存在") != "" {
		t.Error("不存在的Cookie应返回空串")
	}

	// #HttpOnly_ 前缀行按正常条目解析并记录标记
	for _, c := range store.Cookies() {
		if c.Name == "__Secure-3PSID" {
			if !c.HTTPOnly {
				t.Error("__Secure-3PSID 应标记为 HttpOnly")
			}
			if c.Domain != ".youtube.com" {
				t.Errorf("HttpOnly 行的域名解析不符: %q", c.Domain)
			}
		}
	}
}

func TestCookieStoreSaveRoundtrip(t *testing.T) {
	path := writeTempCookies(t, sampleCookiesTxt)
	store := NewCookieStore(path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Netscape HTTP Cookie File\n") {
		t.Error("保存的文件应以标准头开始")
	}
	if !strings.Contains(string(data), "#HttpOnly_.youtube.com\t") {
		t.Error("HttpOnly 条目应带 #HttpOnly_ 前缀写回")
	}

	reloaded := NewCookieStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Cookies()) != len(store.Cookies()) {
		t.Errorf("重新加载后条目数不符: %d != %d", len(reloaded.Cookies()), len(store.Cookies()))
	}
	if reloaded.Get("__Secure-3PSID") != "3psid-value" {
		t.Errorf("重新加载后取值不符: %q", reloaded.Get("__Secure-3PSID"))
	}
}

func TestCookieStoreUpsert(t *testing.T) {
	store := NewCookieStore(writeTempCookies(t, sampleCookiesTxt))
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	before := len(store.Cookies())

	// 新条目追加
	store.Upsert(&Cookie{Name: sessionTokenCookieName, Value: "token-1"})
	if len(store.Cookies()) != before+1 {
		t.Errorf("新条目应追加，实际条目数: %d", len(store.Cookies()))
	}

	// 同名同域条目替换
	store.Upsert(&Cookie{Name: sessionTokenCookieName, Value: "token-2"})
	if len(store.Cookies()) != before+1 {
		t.Errorf("同名条目应替换而非追加，实际条目数: %d", len(store.Cookies()))
	}
	if store.Get(sessionTokenCookieName) != "token-2" {
		t.Errorf("替换后取值不符: %q", store.Get(sessionTokenCookieName))
	}
}
