package main

import (
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	imagepkg "github.com/youruser/idcardapp/internal/image"
	"github.com/youruser/idcardapp/internal/util"
)

var (
	qrText string
	qrSize int
	qrOut  string
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Write a QR code PNG",
	Example: `  idcard qr --text "ID:00123" --size 512 --out qr.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeQR(qrText, qrSize, qrOut)
	},
}

func init() {
	qrCmd.Flags().StringVar(&qrText, "text", "", "Text to encode (required)")
	qrCmd.Flags().IntVar(&qrSize, "size", 256, "Image side in pixels")
	qrCmd.Flags().StringVarP(&qrOut, "out", "o", "qr.png", "Output file")
	_ = qrCmd.MarkFlagRequired("text")
}

func writeQR(text string, size int, out string) error {
	if text == "" {
		return errors.New("--text is required")
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		return err
	}
	if err := util.WriteFile(out, b); err != nil {
		return err
	}
	logger.Info("qr written", zap.String("path", out), zap.String("size", humanize.IBytes(uint64(len(b)))))
	return nil
}
