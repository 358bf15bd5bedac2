package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":  "出力先",
		"Encoder": "エンコーダー設定",
		"Stream":  "ストリーム",
		"Source":  "入力",
		"Logging": "ログ",

		// Root command
		"Encode frames to H.264 with x264":    "x264 でフレームを H.264 にエンコード",
		"x264fade version %s (x264 build %d)": "x264fade バージョン %s (x264 ビルド %d)",

		// Encode command
		"Encode a fade or a still image to H.264": "フェードまたは静止画を H.264 にエンコード",
		"Render frames, encode them with x264 and write a raw H.264 stream or an MP4 file.": "フレームを生成して x264 でエンコードし、生の H.264 ストリームまたは MP4 ファイルとして書き出します。",

		// Output flags
		"YAML configuration file":            "YAML 設定ファイル",
		"Output file path":                   "出力ファイルパス",
		"Output container (h264, mp4, null)": "出力コンテナ（h264, mp4, null）",

		// Summary output flag
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",

		// Encoder flags
		"Encoding engine (x264, sim)":                 "エンコードエンジン（x264, sim）",
		"Speed preset (ultrafast ... placebo)":        "速度プリセット（ultrafast ... placebo）",
		"Tune for the source material":                "素材に合わせたチューニング",
		"Simplify the stream for faster decoding":     "デコードを速くするためストリームを簡略化",
		"Emit every frame immediately":                "すべてのフレームを即座に出力",
		"Disable options that only help later passes": "2パス目以降にのみ有効なオプションを無効化",
		"H.264 profile (baseline, main, high)":        "H.264 プロファイル（baseline, main, high）",
		"Target bitrate in kbit/s":                    "目標ビットレート（kbit/s）",

		// Stream flags
		"Video width (default: 1280)":              "動画の幅（デフォルト: 1280）",
		"Video height (default: 720)":              "動画の高さ（デフォルト: 720）",
		"Frame rate as num/den (default: 60/1)":    "フレームレート num/den（デフォルト: 60/1）",
		"Timestamp unit in seconds as num/den":     "タイムスタンプの単位（秒、num/den）",
		"Use start codes instead of size prefixes": "サイズプレフィックスの代わりにスタートコードを使用",
		"Input pixel format (bgra, rgb, bgr)":      "入力ピクセル形式（bgra, rgb, bgr）",

		// Source flags
		"Number of frames (default: 255)":           "フレーム数（デフォルト: 255）",
		"Still image to encode instead of the fade": "フェードの代わりにエンコードする静止画",
		"Draw a frame counter on the fade":          "フェードにフレームカウンターを描画",

		// Logging flags
		"Log level (debug, info, warn, error, quiet)": "ログレベル（debug, info, warn, error, quiet）",
		"Suppress all log output":                     "全てのログ出力を抑制",

		// Probe command
		"Describe an encoded H.264 or MP4 file": "エンコード済みの H.264 または MP4 ファイルを表示",
		"A file argument is required":           "ファイル引数が必要です",
		"Profile / Level":                       "プロファイル / レベル",

		// Summary content
		"Encoding Summary": "エンコードサマリー",
		"Generated":        "生成日時",
		"Settings":         "設定",
		"Results":          "実行結果",
		"Item":             "項目",
		"Value":            "値",
		"Generated by":     "生成:",

		// Settings section
		"Engine":              "エンジン",
		"Preset":              "プリセット",
		"Tune":                "チューニング",
		"Profile":             "プロファイル",
		"Pixel Format":        "ピクセル形式",
		"Video Size":          "動画サイズ",
		"Frame Rate":          "フレームレート",
		"Timebase":            "タイムベース",
		"Bitrate":             "ビットレート",
		"Framing":             "フレーミング",
		"Preset default":      "プリセットの既定値",
		"One unit per frame":  "1フレーム1単位",
		"Annex B start codes": "Annex B スタートコード",
		"Length prefixed":     "長さプレフィックス",

		// Results section
		"Frames In":       "入力フレーム数",
		"Frames Out":      "出力フレーム数",
		"Keyframes":       "キーフレーム数",
		"Header Size":     "ヘッダーサイズ",
		"Stream Size":     "ストリームサイズ",
		"Video Duration":  "動画再生時間",
		"Average Bitrate": "平均ビットレート",
		"Drain Calls":     "ドレイン呼び出し回数",
		"Encoding Time":   "エンコード時間",
		"Encoding Speed":  "エンコード速度",

		// Output section
		"File":        "ファイル",
		"Container":   "コンテナ",
		"File Size":   "ファイルサイズ",
		"Codec":       "コーデック",
		"Frame Count": "フレーム数",

		// Presets command
		"List presets and tunes": "プリセットとチューニングの一覧",
		"Presets:":               "プリセット:",
		"Tunes:":                 "チューニング:",
	})
}
