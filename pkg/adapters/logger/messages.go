package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Encoder setup
		"Profile %s rejected by engine":      "プロファイル %s がエンジンに拒否されました",
		"Engine refused to open encoder":     "エンジンがエンコーダーを開けませんでした",
		"Encoder opened (colorspace 0x%04x)": "エンコーダーを開きました (色空間 0x%04x)",
		"Encoder closed":                     "エンコーダーを閉じました",

		// Warnings
		"Closing encoder with %d delayed frames, their output is discarded": "遅延中の %d フレームを残してエンコーダーを閉じます。出力は破棄されます",

		// Encode stage
		"Draining %d delayed frames":                 "遅延中の %d フレームを出力中",
		"Encoded %d frames (%d keyframes, %d bytes)": "%d フレームをエンコードしました (キーフレーム %d, %d バイト)",
		"Failed to discard output: %s":               "出力の破棄に失敗しました: %s",

		// Orchestrator
		"Failed to inspect output: %s":          "出力の検査に失敗しました: %s",
		"Output holds %d frames (%d keyframes)": "出力には %d フレームがあります (キーフレーム %d)",

		// Command line
		"Encoding %d frames at %dx%d (%s preset)": "%d フレームを %dx%d でエンコード中 (%s プリセット)",
		"Reading %dx%d frames from %s":            "%[3]s から %[1]dx%[2]d のフレームを読み込み中",
		"Output saved to %s":                      "出力を %s に保存しました",
		"Interrupted, shutting down...":           "中断されました。シャットダウン中...",
		"Failed to encode video: %s":              "動画のエンコードに失敗しました: %s",
		"Summary saved to %s":                     "サマリーを %s に保存しました",
		"Failed to write summary: %s":             "サマリーの書き込みに失敗しました: %s",
	})
}
