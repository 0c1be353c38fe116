package command

import (
	"encoding/json"

	"botwatch/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type LogsHandler struct {
	logger           *zap.Logger
	detectionService *service.DetectionService
}

func NewLogsHandler(logger *zap.Logger, detectionService *service.DetectionService) *LogsHandler {
	return &LogsHandler{logger: logger, detectionService: detectionService}
}

// Print 與 GET /logs 相同格式
func (handler *LogsHandler) Print(cmd *cobra.Command, args []string) error {
	logs, err := handler.detectionService.ReadLogs(cmd.Context())
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
