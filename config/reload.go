package config

import (
	"fmt"
	"reflect"
	"strings"
)

// 執行期可變更的區段；其他區段在啟動時已決定連線與路由
var reloadable = map[string]bool{"Log": true}

// CheckReload 比對新舊設定，非 LOG 區段有變動就回傳錯誤（需重啟才能生效）
func CheckReload(current, next *Configuration) error {
	cur := reflect.ValueOf(current).Elem()
	nxt := reflect.ValueOf(next).Elem()
	typ := cur.Type()

	var changed []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if reloadable[field.Name] {
			continue
		}
		if !reflect.DeepEqual(cur.Field(i).Interface(), nxt.Field(i).Interface()) {
			changed = append(changed, field.Tag.Get("mapstructure"))
		}
	}
	if len(changed) > 0 {
		return fmt.Errorf("%s cannot change at runtime, restart to apply", strings.Join(changed, ", "))
	}
	return nil
}
