package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	FilePath string // MIDIファイルのパス
	LogLevel string // ログレベル（debug, info, warn, error）
	Parallel int    // トラックを並列にデコードする数（1は逐次）
	Duration bool   // 再生時間も表示する
	ShowHelp bool   // ヘルプ表示フラグ
}

// boolFlags は値を取らないフラグ
var boolFlags = map[string]bool{
	"-h": true, "-help": true, "--help": true,
	"-d": true, "-duration": true, "--duration": true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("midiparse", flag.ContinueOnError)

	config := &Config{}

	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.IntVar(&config.Parallel, "parallel", 0, "並列デコード数")
	fs.IntVar(&config.Parallel, "p", 0, "並列デコード数（短縮形）")
	fs.BoolVar(&config.Duration, "duration", false, "再生時間を表示")
	fs.BoolVar(&config.Duration, "d", false, "再生時間を表示（短縮形）")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if config.Parallel == 0 {
		if parallelEnv := os.Getenv("MIDIPARSE_PARALLEL"); parallelEnv != "" {
			p, err := strconv.Atoi(parallelEnv)
			if err != nil {
				return nil, fmt.Errorf("invalid MIDIPARSE_PARALLEL: %q", parallelEnv)
			}
			config.Parallel = p
		}
	}

	// 環境変数からログレベルを取得（コマンドラインフラグが優先）
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	// 並列数の検証
	if config.Parallel < 0 {
		return nil, fmt.Errorf("parallel must be non-negative, got %d", config.Parallel)
	}
	if config.Parallel == 0 {
		config.Parallel = 1
	}

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	// 位置引数（MIDIファイルのパス）
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected one MIDI file, got %d arguments", fs.NArg())
	}
	if fs.NArg() == 1 {
		config.FilePath = fs.Arg(0)
	}

	return config, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			// -flag=value 形式や値を取らないフラグは次の引数を消費しない
			if strings.Contains(arg, "=") || boolFlags[arg] {
				continue
			}
			// （-p 4 のような場合）
			if i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `midiparse - Standard MIDI File decoder

Usage:
  midiparse [options] <file.mid>

Arguments:
  file.mid      デコードするMIDIファイル（大文字小文字を区別せずに検索）

Options:
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  -p, --parallel <n>          n トラックを並列にデコード（デフォルト: 1 = 逐次）
  -d, --duration              シンセサイザーで求めた再生時間も表示
  -h, --help                  このヘルプを表示

Environment Variables:
  LOG_LEVEL=<level>           ログレベル
  MIDIPARSE_PARALLEL=<n>      並列デコード数

Examples:
  midiparse song.mid                  デコード結果を表示
  midiparse -p 4 song.mid             4 トラックずつ並列にデコード
  midiparse --duration song.mid       再生時間も表示
  LOG_LEVEL=debug midiparse song.mid  トラックごとのデバッグログを有効化
`)
}
