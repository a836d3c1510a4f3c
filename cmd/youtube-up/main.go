package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/7x11x13/youtube-up/internal/config"
	"github.com/7x11x13/youtube-up/internal/database"
	"github.com/7x11x13/youtube-up/internal/platform/youtube"
	"github.com/7x11x13/youtube-up/internal/service"
	"github.com/7x11x13/youtube-up/internal/types"
	"github.com/7x11x13/youtube-up/internal/utils"
)

const usageText = `usage: youtube-up <command> [flags]

commands:
  accounts  列出所有账号
  add       添加账号
  login     打开浏览器登录并保存Cookie
  video     上传单个视频
  json      按JSON任务文件批量上传
  history   查看上传历史
`

// app 聚合命令行运行所需的服务
type app struct {
	accounts *service.AccountService
	history  *service.HistoryService
	logs     *service.LogService
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	if err := config.Init(); err != nil {
		fatal(fmt.Errorf("初始化配置失败: %w", err))
	}
	if err := utils.InitLogger(); err != nil {
		fatal(fmt.Errorf("初始化日志失败: %w", err))
	}
	defer utils.GetLogger().Close()

	logService := service.NewLogService()
	utils.SetLogService(logService)

	db, err := database.Init()
	if err != nil {
		fatal(fmt.Errorf("初始化数据库失败: %w", err))
	}

	a := &app{
		accounts: service.NewAccountService(db),
		history:  service.NewHistoryService(db),
		logs:     logService,
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	ctx := context.Background()

	switch cmd {
	case "accounts":
		err = a.cmdAccounts(ctx, args)
	case "add":
		err = a.cmdAdd(ctx, args)
	case "login":
		err = a.cmdLogin(ctx, args)
	case "video":
		err = a.cmdVideo(ctx, args)
	case "json":
		err = a.cmdJSON(ctx, args)
	case "history":
		err = a.cmdHistory(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usageText)
	default:
		fmt.Fprintf(os.Stderr, "未知命令: %s\n", cmd)
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		a.printDiagnostics()
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "错误: %v\n", err)
	os.Exit(1)
}

// printDiagnostics 出错时输出最近的日志尾部，方便定位问题
func (a *app) printDiagnostics() {
	logs := a.logs.Tail(20)
	if len(logs) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "--- 最近日志 ---")
	for _, log := range logs {
		fmt.Fprintf(os.Stderr, "%s %s %s\n", log.Date, log.Time, log.Message)
	}
}

func (a *app) cmdAccounts(ctx context.Context, args []string) error {
	accounts, err := a.accounts.GetAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("暂无账号，使用 youtube-up add --name <名称> 添加")
		return nil
	}
	for _, acc := range accounts {
		status := "无效"
		if acc.Status == config.AccountStatusValid {
			status = "有效"
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", acc.ID, acc.Name, status, acc.CreatedAt)
	}
	return nil
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "账号名称")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("缺少 --name 参数")
	}
	account, err := a.accounts.AddAccount(ctx, *name)
	if err != nil {
		return err
	}
	fmt.Printf("账号已添加: %d\t%s\n", account.ID, account.Name)
	fmt.Println("使用 youtube-up login --account", account.ID, "登录")
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	accountID := fs.Int("account", 0, "账号ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *accountID == 0 {
		return fmt.Errorf("缺少 --account 参数")
	}
	if err := a.accounts.LoginAccount(ctx, *accountID); err != nil {
		return err
	}
	fmt.Println("登录成功，Cookie已保存")
	return nil
}

func (a *app) cmdHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "返回条数")
	if err := fs.Parse(args); err != nil {
		return err
	}
	records, err := a.history.List(ctx, *limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("暂无上传记录")
		return nil
	}
	for _, r := range records {
		if r.Status == "success" {
			fmt.Printf("%s\t成功\t%s\thttps://youtu.be/%s\n", r.CreatedAt, r.Title, r.VideoID)
		} else {
			fmt.Printf("%s\t失败\t%s\t%s\n", r.CreatedAt, r.Title, r.Error)
		}
	}
	return nil
}

func (a *app) cmdVideo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("video", flag.ExitOnError)
	accountID := fs.Int("account", 0, "账号ID")
	title := fs.String("title", "", "视频标题（必填）")
	description := fs.String("description", "", "视频描述")
	tags := fs.String("tags", "", "标签，逗号分隔")
	privacy := fs.String("privacy", "", "可见性: PRIVATE/UNLISTED/PUBLIC")
	category := fs.String("category", "", "分类，如 GAMING 或分类ID")
	madeForKids := fs.Bool("made-for-kids", false, "是否面向儿童")
	thumbnail := fs.String("thumbnail", "", "封面图片路径")
	thumbnailFrame := fs.Int("thumbnail-from-frame", -1, "从视频第N秒抽帧作为封面")
	playlists := fs.String("playlists", "", "播放列表标题，逗号分隔，不存在时自动创建")
	schedule := fs.String("schedule", "", "定时发布时间，如 2026-09-01T12:00:00")
	metadataFile := fs.String("metadata", "", "完整元数据JSON文件，命令行参数覆盖其中字段")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("用法: youtube-up video [flags] <视频文件>")
	}
	videoPath := fs.Arg(0)
	if *accountID == 0 {
		return fmt.Errorf("缺少 --account 参数")
	}

	// 以JSON文件为底，命令行参数覆盖
	raw := map[string]json.RawMessage{}
	if *metadataFile != "" {
		data, err := os.ReadFile(*metadataFile)
		if err != nil {
			return fmt.Errorf("读取元数据文件失败: %w", err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("解析元数据文件失败: %w", err)
		}
	}
	setField := func(key string, value any) {
		data, _ := json.Marshal(value)
		raw[key] = data
	}
	if *title != "" {
		setField("title", *title)
	}
	if *description != "" {
		setField("description", *description)
	}
	if *tags != "" {
		setField("tags", splitComma(*tags))
	}
	if *privacy != "" {
		setField("privacy", *privacy)
	}
	if *category != "" {
		// 数字按分类ID处理，其余按符号名处理
		if n, convErr := strconv.Atoi(*category); convErr == nil {
			setField("category", n)
		} else {
			setField("category", *category)
		}
	}
	if *madeForKids {
		setField("made_for_kids", true)
	}
	if *thumbnail != "" {
		setField("thumbnail", *thumbnail)
	}
	if *schedule != "" {
		setField("scheduled_upload", *schedule)
	}
	if *playlists != "" {
		var pls []map[string]any
		for _, name := range splitComma(*playlists) {
			pls = append(pls, map[string]any{"title": name})
		}
		setField("playlists", pls)
	}

	merged, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var meta youtube.Metadata
	if err := json.Unmarshal(merged, &meta); err != nil {
		return fmt.Errorf("解析元数据失败: %w", err)
	}

	// 抽帧封面：先生成临时图片再走正常封面上传
	if *thumbnailFrame >= 0 {
		if !utils.CheckFFmpeg() {
			return fmt.Errorf("系统未安装 ffmpeg，无法抽帧作为封面")
		}
		framePath, err := utils.ExtractFrameAt(videoPath, *thumbnailFrame)
		if err != nil {
			return err
		}
		defer utils.CleanupTempFile(framePath)
		meta.Thumbnail = framePath
	}

	return a.uploadOne(ctx, *accountID, videoPath, &meta)
}

func (a *app) cmdJSON(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("json", flag.ExitOnError)
	accountID := fs.Int("account", 0, "账号ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("用法: youtube-up json [flags] <任务文件>")
	}
	if *accountID == 0 {
		return fmt.Errorf("缺少 --account 参数")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("读取任务文件失败: %w", err)
	}
	var tasks []types.BatchTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return fmt.Errorf("解析任务文件失败: %w", err)
	}
	if len(tasks) == 0 {
		return fmt.Errorf("任务文件为空")
	}

	var failed int
	for i, task := range tasks {
		fmt.Printf("[%d/%d] %s\n", i+1, len(tasks), task.File)

		var meta youtube.Metadata
		if err := json.Unmarshal(task.Metadata, &meta); err != nil {
			fmt.Fprintf(os.Stderr, "解析元数据失败: %v\n", err)
			failed++
			continue
		}
		if err := a.uploadOne(ctx, *accountID, task.File, &meta); err != nil {
			fmt.Fprintf(os.Stderr, "上传失败: %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d/%d 个任务失败", failed, len(tasks))
	}
	fmt.Printf("全部 %d 个任务上传完成\n", len(tasks))
	return nil
}

// uploadOne 上传单个视频并记录历史
func (a *app) uploadOne(ctx context.Context, accountID int, videoPath string, meta *youtube.Metadata) error {
	account, err := a.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.CookiePath == "" {
		return fmt.Errorf("账号尚未登录，使用 youtube-up login --account %d", accountID)
	}

	store := youtube.NewCookieStore(account.CookiePath)
	provider := youtube.NewBrowserTokenProvider(nil)
	uploader, err := youtube.NewUploader(store, provider, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	videoID, err := uploader.Upload(ctx, videoPath, meta, progressBar)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		_ = a.history.RecordFailure(ctx, accountID, meta.Title, videoPath, err)
		return err
	}

	if err := a.history.RecordSuccess(ctx, accountID, videoID, meta.Title, videoPath, time.Since(start)); err != nil {
		utils.Warn("记录上传历史失败: " + err.Error())
	}
	fmt.Printf("上传成功: https://youtu.be/%s\n", videoID)
	return nil
}

// progressBar 单行回显上传进度
func progressBar(step string, percent float64) {
	fmt.Fprintf(os.Stderr, "\r%-20s %5.1f%%", step, percent)
}

func splitComma(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
