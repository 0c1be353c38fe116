package database

import (
	client "botwatch/internal/database/client"
	fluentdRepo "botwatch/internal/database/fluentd/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client 的依賴
var ProviderSet = wire.NewSet(
	client.NewFluentdClient,
	fluentdRepo.ProviderSet,
	NewDetectionStore,
)
