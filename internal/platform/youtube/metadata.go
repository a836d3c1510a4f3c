package youtube

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/7x11x13/youtube-up/internal/types"
)

// Privacy 可见性
type Privacy string

const (
	PrivacyPrivate  Privacy = "PRIVATE"
	PrivacyUnlisted Privacy = "UNLISTED"
	PrivacyPublic   Privacy = "PUBLIC"
)

var privacyTokens = map[string]string{
	"PRIVATE":  "PRIVATE",
	"UNLISTED": "UNLISTED",
	"PUBLIC":   "PUBLIC",
}

// Category 视频分类，协议值为数字
type Category int

var categoryTokens = map[string]int{
	"FILM_ANIMATION":      1,
	"AUTOS_VEHICLES":      2,
	"MUSIC":               10,
	"PETS_ANIMALS":        15,
	"SPORTS":              17,
	"TRAVEL_EVENTS":       19,
	"GAMING":              20,
	"PEOPLE_BLOGS":        22,
	"COMEDY":              23,
	"ENTERTAINMENT":       24,
	"NEWS_POLITICS":       25,
	"HOWTO_STYLE":         26,
	"EDUCATION":           27,
	"SCIENCE_TECH":        28,
	"NONPROFITS_ACTIVISM": 29,
}

// Language 音频语言
// 协议值空间开放（任意 BCP-47 代码都可能有效），只做符号名映射，不拒绝未知值
type Language string

var languageTokens = map[string]string{
	"ENGLISH": "en",
}

// License 许可协议
type License string

var licenseTokens = map[string]string{
	"STANDARD":         "standard",
	"CREATIVE_COMMONS": "creative_commons",
}

// AllowComments 评论审核模式
type AllowComments string

var allowCommentsTokens = map[string]string{
	"ALL_COMMENTS":              "ALL_COMMENTS",
	"HOLD_INAPPROPRIATE":        "AUTOMATED_COMMENTS",
	"HOLD_INAPPROPRIATE_STRICT": "AUTO_MODERATED_COMMENTS_HOLD_MORE",
	"HOLD_ALL":                  "APPROVED_COMMENTS",
}

// CommentsSortOrder 评论默认排序
type CommentsSortOrder string

var commentsSortOrderTokens = map[string]string{
	"LATEST": "MDE_COMMENT_SORT_ORDER_LATEST",
	"TOP":    "MDE_COMMENT_SORT_ORDER_TOP",
}

// ThumbnailFormat 封面格式的协议值
type ThumbnailFormat string

const (
	ThumbnailFormatPNG ThumbnailFormat = "CUSTOM_THUMBNAIL_IMAGE_FORMAT_PNG"
	ThumbnailFormatJPG ThumbnailFormat = "CUSTOM_THUMBNAIL_IMAGE_FORMAT_JPEG"
)

// PremiereDuration 首映倒计时时长（秒，协议值为字符串）
type PremiereDuration string

var premiereDurationTokens = map[string]string{
	"ONE_MIN":   "60",
	"TWO_MIN":   "120",
	"THREE_MIN": "180",
	"FOUR_MIN":  "240",
	"FIVE_MIN":  "300",
}

// PremiereTheme 首映倒计时主题
type PremiereTheme string

var premiereThemeTokens = map[string]string{
	"CLASSIC":       "VIDEO_PREMIERE_INTRO_THEME_DEFAULT",
	"ALTERNATIVE":   "VIDEO_PREMIERE_INTRO_THEME_ALTERNATIVE",
	"AMBIENT":       "VIDEO_PREMIERE_INTRO_THEME_AMBIENT",
	"BRIGHT":        "VIDEO_PREMIERE_INTRO_THEME_BRIGHT",
	"CALM":          "VIDEO_PREMIERE_INTRO_THEME_CALM",
	"CINEMATIC":     "VIDEO_PREMIERE_INTRO_THEME_CINEMATIC",
	"CONTEMPORARY":  "VIDEO_PREMIERE_INTRO_THEME_CONTEMPORARY",
	"DRAMATIC":      "VIDEO_PREMIERE_INTRO_THEME_DRAMATIC",
	"FUNKY":         "VIDEO_PREMIERE_INTRO_THEME_FUNKY",
	"GENTLE":        "VIDEO_PREMIERE_INTRO_THEME_GENTLE",
	"HAPPY":         "VIDEO_PREMIERE_INTRO_THEME_HAPPY",
	"INSPIRATIONAL": "VIDEO_PREMIERE_INTRO_THEME_INSPIRATIONAL",
	"KIDS":          "VIDEO_PREMIERE_INTRO_THEME_KIDS",
	"SCI_FI":        "VIDEO_PREMIERE_INTRO_THEME_SCI_FI",
	"SPORTS":        "VIDEO_PREMIERE_INTRO_THEME_SPORTS",
}

// resolveToken 两阶段解析枚举输入
// 先按协议值匹配，再按符号名匹配，都不命中则判定为非法输入
func resolveToken(field, raw string, tokens map[string]string) (string, error) {
	for _, v := range tokens {
		if v == raw {
			return raw, nil
		}
	}
	if v, ok := tokens[raw]; ok {
		return v, nil
	}
	return "", types.NewValidationError("%s 取值无效: %q", field, raw)
}

func (p *Privacy) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := resolveToken("privacy", s, privacyTokens)
	if err != nil {
		return err
	}
	*p = Privacy(v)
	return nil
}

func (c *Category) UnmarshalJSON(b []byte) error {
	// 数字为协议值，字符串为符号名
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		for _, v := range categoryTokens {
			if v == n {
				*c = Category(n)
				return nil
			}
		}
		return types.NewValidationError("category 取值无效: %d", n)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, ok := categoryTokens[s]; ok {
		*c = Category(v)
		return nil
	}
	return types.NewValidationError("category 取值无效: %q", s)
}

func (l *Language) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// 符号名映射命中则转换，否则原样接受
	if v, ok := languageTokens[s]; ok {
		s = v
	}
	if s == "" {
		return types.NewValidationError("audio_language 不能为空")
	}
	*l = Language(s)
	return nil
}

func (l *License) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := resolveToken("license", s, licenseTokens)
	if err != nil {
		return err
	}
	*l = License(v)
	return nil
}

func (a *AllowComments) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := resolveToken("allow_comments_mode", s, allowCommentsTokens)
	if err != nil {
		return err
	}
	*a = AllowComments(v)
	return nil
}

func (c *CommentsSortOrder) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := resolveToken("comments_sort_order", s, commentsSortOrderTokens)
	if err != nil {
		return err
	}
	*c = CommentsSortOrder(v)
	return nil
}

func (d *PremiereDuration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := resolveToken("premiere_countdown_duration", s, premiereDurationTokens)
	if err != nil {
		return err
	}
	*d = PremiereDuration(v)
	return nil
}

func (t *PremiereTheme) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := resolveToken("premiere_theme", s, premiereThemeTokens)
	if err != nil {
		return err
	}
	*t = PremiereTheme(v)
	return nil
}

// Timestamp 定时发布时间，接受 RFC3339 或不带时区的本地时间
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		return types.NewValidationError("scheduled_upload 时间格式无效: %q", s)
	}
	t.Time = parsed
	return nil
}

// Date 拍摄日期
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return types.NewValidationError("recorded_date 日期格式无效: %q", s)
	}
	d.Year = parsed.Year()
	d.Month = int(parsed.Month())
	d.Day = parsed.Day()
	return nil
}

// Playlist 播放列表声明
// 两个 create 开关组成四态决策表，见 resolvePlaylists
type Playlist struct {
	Title                    string  `json:"title"`
	Description              string  `json:"description"`
	Privacy                  Privacy `json:"privacy"`
	CreateIfTitleExists      bool    `json:"create_if_title_exists"`
	CreateIfTitleDoesntExist bool    `json:"create_if_title_doesnt_exist"`
}

func (p *Playlist) UnmarshalJSON(b []byte) error {
	type alias Playlist
	tmp := alias{
		Privacy:                  PrivacyPublic,
		CreateIfTitleDoesntExist: true,
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*p = Playlist(tmp)
	return nil
}

// CaptionsFile 字幕文件声明
// Language 为空时在上传前回填为 metadata 的 audio_language
type CaptionsFile struct {
	Path     string    `json:"path"`
	Language *Language `json:"language,omitempty"`
}

// Metadata 视频元数据
// 调用方传入后视为只读，上传器只会追加解析出的播放列表 id 和回填字幕语言
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Privacy     Privacy  `json:"privacy"`
	MadeForKids bool     `json:"made_for_kids"`
	Tags        []string `json:"tags"`

	// 以下均为可选项，缺省时对应的协议片段整体省略
	ScheduledUpload           *Timestamp         `json:"scheduled_upload,omitempty"`
	PremiereCountdownDuration *PremiereDuration  `json:"premiere_countdown_duration,omitempty"`
	PremiereTheme             *PremiereTheme     `json:"premiere_theme,omitempty"`
	PlaylistIDs               []string           `json:"playlist_ids,omitempty"`
	Playlists                 []Playlist         `json:"playlists,omitempty"`
	Thumbnail                 string             `json:"thumbnail,omitempty"`
	PublishToFeed             *bool              `json:"publish_to_feed,omitempty"`
	Category                  *Category          `json:"category,omitempty"`
	AutoChapter               *bool              `json:"auto_chapter,omitempty"`
	AutoPlaces                *bool              `json:"auto_places,omitempty"`
	AutoConcepts              *bool              `json:"auto_concepts,omitempty"`
	HasProductPlacement       *bool              `json:"has_product_placement,omitempty"`
	ShowProductPlacementOverlay *bool            `json:"show_product_placement_overlay,omitempty"`
	RecordedDate              *Date              `json:"recorded_date,omitempty"`
	RestrictedToOver18        *bool              `json:"restricted_to_over_18,omitempty"`
	AudioLanguage             *Language          `json:"audio_language,omitempty"`
	CaptionsFiles             []*CaptionsFile    `json:"captions_files,omitempty"`
	License                   *License           `json:"license,omitempty"`
	AllowComments             *bool              `json:"allow_comments,omitempty"`
	AllowCommentsMode         *AllowComments     `json:"allow_comments_mode,omitempty"`
	CanViewRatings            *bool              `json:"can_view_ratings,omitempty"`
	CommentsSortOrder         *CommentsSortOrder `json:"comments_sort_order,omitempty"`
	AllowEmbedding            *bool              `json:"allow_embedding,omitempty"`
}

func containsAngleBrackets(s string) bool {
	return strings.ContainsAny(s, "<>")
}

// Validate 业务规则校验，在任何网络请求之前执行
func (m *Metadata) Validate() error {
	if utf8.RuneCountInString(m.Title) > 100 {
		return types.NewValidationError("标题长度不能超过100个字符")
	}
	if containsAngleBrackets(m.Title) {
		return types.NewValidationError("标题不能包含尖括号")
	}
	if utf8.RuneCountInString(m.Description) > 5000 {
		return types.NewValidationError("简介长度不能超过5000个字符")
	}
	if containsAngleBrackets(m.Description) {
		return types.NewValidationError("简介不能包含尖括号")
	}
	for _, tag := range m.Tags {
		if containsAngleBrackets(tag) {
			return types.NewValidationError("标签不能包含尖括号: %q", tag)
		}
	}
	for _, pl := range m.Playlists {
		if containsAngleBrackets(pl.Title) || containsAngleBrackets(pl.Description) {
			return types.NewValidationError("播放列表标题和描述不能包含尖括号: %q", pl.Title)
		}
	}

	// 首映字段要么都设置要么都不设置
	if (m.PremiereCountdownDuration == nil) != (m.PremiereTheme == nil) {
		return types.NewValidationError("premiere_countdown_duration 和 premiere_theme 必须同时设置或同时缺省")
	}
	if m.PremiereCountdownDuration != nil && m.ScheduledUpload == nil {
		return types.NewValidationError("设置首映时必须同时设置 scheduled_upload")
	}

	if m.MadeForKids && m.RestrictedToOver18 != nil && *m.RestrictedToOver18 {
		return types.NewValidationError("made_for_kids 与 restricted_to_over_18 互斥")
	}

	// 每个字幕文件必须能确定语言（自带或回退到 audio_language）
	for _, cf := range m.CaptionsFiles {
		if cf.Language == nil && m.AudioLanguage == nil {
			return types.NewValidationError("字幕文件 %q 未指定语言，且未设置 audio_language", cf.Path)
		}
	}

	return nil
}
