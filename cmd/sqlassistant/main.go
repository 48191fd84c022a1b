package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/Zacy-Sokach/sqlassistant/internal/api"
	"github.com/Zacy-Sokach/sqlassistant/internal/chat"
	"github.com/Zacy-Sokach/sqlassistant/internal/config"
	"github.com/Zacy-Sokach/sqlassistant/internal/logging"
	"github.com/Zacy-Sokach/sqlassistant/internal/tui"
	"github.com/Zacy-Sokach/sqlassistant/internal/utils"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	Version = "dev"
)

func main() {
	plain := false

	// 处理命令行参数
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-v", "--version":
			fmt.Printf("SQL Assistant %s\n", Version)
			os.Exit(0)
		case "-h", "--help":
			fmt.Println("SQL Assistant - ask your database questions in plain English")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  sqlassistant              Start the interactive TUI")
			fmt.Println("  sqlassistant --plain      Read questions from stdin, one per line")
			fmt.Println("  sqlassistant -v, --version  Show version information")
			fmt.Println("  sqlassistant -h, --help     Show help information")
			fmt.Println()
			fmt.Println("Commands in TUI:")
			fmt.Println("  /clear                 Clear the conversation")
			fmt.Println("  /theme                 Toggle light/dark theme")
			fmt.Println("  /help                  Show all key bindings")
			fmt.Println("  /quit                  Exit")
			fmt.Println()
			fmt.Printf("Config file: %s\n", utils.GetConfigPathForDisplay())
			os.Exit(0)
		case "--plain":
			plain = true
		default:
			fmt.Printf("未知参数: %s (使用 --help 查看用法)\n", os.Args[1])
			os.Exit(2)
		}
	}

	// 添加panic恢复
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("程序发生panic: %v\n", r)
			fmt.Println("堆栈跟踪:")
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	// 当前目录的 .env 可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("读取 .env 失败: %v\n", err)
		os.Exit(1)
	}

	interactive := isTerminal() && !plain

	firstRun := !config.Exists()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if firstRun {
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("保存配置失败: %v\n", err)
			os.Exit(1)
		}
		printWelcome(noticeWriter(interactive), utils.GetConfigPathForDisplay())
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Printf("环境变量配置无效: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("配置无效: %v\n", err)
		os.Exit(1)
	}

	logPath, err := cfg.LogFilePath()
	if err != nil {
		fmt.Printf("获取日志路径失败: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(logPath, cfg.Log.Level)
	if err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.String("version", Version),
		zap.String("backend", cfg.Backend.URL),
		zap.Duration("timeout", cfg.Backend.Timeout()),
		zap.Bool("plain", plain))

	client := api.NewClient(cfg.Backend.URL, cfg.Backend.SessionID,
		api.WithDoer(api.NewHTTPClient(cfg.Backend.Timeout())),
		api.WithLogger(logger),
	)
	conv := chat.NewConversation(chat.ParseTheme(cfg.Theme))

	// 检查是否在交互式终端中
	if interactive {
		tui.Version = Version
		model := tui.NewModel(conv, client, logger)
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
		if _, err := p.Run(); err != nil {
			logger.Error("tui exited with error", zap.Error(err))
			fmt.Printf("程序运行错误: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// 非交互式环境，逐行读取问题
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := chat.RunLines(ctx, os.Stdin, os.Stdout, conv, client); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("plain mode failed", zap.Error(err))
		fmt.Printf("程序运行错误: %v\n", err)
		os.Exit(1)
	}
}

// noticeWriter 非交互模式下标准输出只留给回答，提示信息改写到 stderr
func noticeWriter(interactive bool) io.Writer {
	if interactive {
		return os.Stdout
	}
	return os.Stderr
}

func printWelcome(w io.Writer, configPath string) {
	fmt.Fprintln(w, lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("欢迎使用 SQL Assistant!"))
	fmt.Fprintf(w, "已创建默认配置: %s\n", configPath)
}

func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
