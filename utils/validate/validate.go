package validate

import (
	"errors"
	"fmt"
	"strings"

	"botwatch/config"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(storeRules, config.Configuration{})
	return v
}

// storeRules 所選的儲存後端必須有連線設定
func storeRules(sl validator.StructLevel) {
	conf := sl.Current().Interface().(config.Configuration)
	switch conf.Detection.Store {
	case "mongo":
		if conf.MongoDB.URI == "" {
			sl.ReportError(conf.MongoDB.URI, "MongoDB.URI", "URI", "required_for_store", "mongo")
		}
		if conf.MongoDB.Database == "" {
			sl.ReportError(conf.MongoDB.Database, "MongoDB.Database", "Database", "required_for_store", "mongo")
		}
	case "redis":
		if conf.Redis.Host == "" {
			sl.ReportError(conf.Redis.Host, "Redis.Host", "Host", "required_for_store", "redis")
		}
	}
}

// Config 啟動前檢查設定；錯誤訊息列出所有不合格欄位
func Config(conf *config.Configuration) error {
	if conf == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(conf); err != nil {
		return errors.New(ValidationErrorResponse(err))
	}
	return nil
}

// 輸出格式化的 validator error（欄位路徑/型別/規則）
func ValidationErrorResponse(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var b strings.Builder
		b.WriteString("Validation error:\n")
		for _, fe := range errs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			b.WriteString(fmt.Sprintf(" - Field \"%s\" (type: %s, value: %v) failed the '%s' validation\n",
				envKey(fe.Namespace()), fe.Kind(), fe.Value(), rule))
		}
		return b.String()
	}
	return fmt.Sprintf("Validation error: %s", err.Error())
}

// envKey 去掉根型別名稱，例如 Configuration.Detection.CSVPath → Detection.CSVPath
func envKey(namespace string) string {
	return strings.TrimPrefix(namespace, "Configuration.")
}
