package command

import (
	"strings"

	"botwatch/internal/classifier"

	"github.com/spf13/cobra"
)

// ClassifyHandler 不需要任何依賴
type ClassifyHandler struct{}

func NewClassifyHandler() *ClassifyHandler {
	return &ClassifyHandler{}
}

func (handler *ClassifyHandler) Classify(cmd *cobra.Command, args []string) {
	userAgent := strings.Join(args, " ")
	botType, detected := classifier.Classify(userAgent)
	cmd.Printf("%s detected=%t\n", botType, detected)
}
