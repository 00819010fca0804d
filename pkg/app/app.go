package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/zurustar/midiparse/pkg/cli"
	"github.com/zurustar/midiparse/pkg/fileutil"
	"github.com/zurustar/midiparse/pkg/format"
	"github.com/zurustar/midiparse/pkg/logger"
	"github.com/zurustar/midiparse/pkg/smf"
)

// ErrNoInput はMIDIファイルが指定されていない場合のエラー
var ErrNoInput = errors.New("no MIDI file specified")

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger
	out    io.Writer
}

// New Applicationを作成
// デコード結果はoutに書き出す
func New(out io.Writer) *Application {
	return &Application{
		out: out,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}
	if app.config.FilePath == "" {
		cli.PrintHelp()
		return ErrNoInput
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Debug("Application started", "file", app.config.FilePath, "parallel", app.config.Parallel)

	// 3. ファイル全体の読み込み
	data, err := fileutil.ReadFile(app.config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read MIDI file: %w", err)
	}

	app.log.Info("MIDI file loaded", "path", app.config.FilePath, "size", len(data))

	// 4. デコード
	file, err := app.decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode MIDI file: %w", err)
	}

	app.log.Info("MIDI file decoded", "format", file.Header.Format, "tracks", len(file.Tracks))

	// 5. 再生時間の計算（指定されている場合）
	opts := format.Options{Size: len(data)}
	if app.config.Duration {
		opts.Length = app.playbackLength(data)
	}

	// 6. 結果の出力
	if err := format.Write(app.out, file, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// decode トラックを設定された並列数でデコード
func (app *Application) decode(data []byte) (*smf.File, error) {
	d := smf.Decoder{
		Parallelism: app.config.Parallel,
		Logger:      app.log,
	}
	return d.Decode(data)
}

// playbackLength シンセサイザー側のパーサで再生時間を求める
// 失敗しても出力は続けるため、警告を出して0を返す
func (app *Application) playbackLength(data []byte) time.Duration {
	midiFile, err := meltysynth.NewMidiFile(bytes.NewReader(data))
	if err != nil {
		app.log.Warn("Failed to compute playback length", "error", err)
		return 0
	}

	length := midiFile.GetLength()
	app.log.Debug("Playback length computed", "length", length)
	return length
}
