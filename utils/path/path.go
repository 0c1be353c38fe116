package path

import (
	"os"
	"path/filepath"
	"runtime"
)

// RootPath 傳回專案根目錄的絕對路徑
func RootPath() string {
	// 透過 runtime.Caller(0) 回推到此檔案，再往上兩層：/project/utils/path/path.go → /project
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("❌ 無法取得 caller 位置")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// Exists 路徑是否存在
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Resolve 絕對路徑原樣回傳；相對路徑先找工作目錄，找不到再接到 root（可加子目錄）之下
func Resolve(p, root string, dirs ...string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if ok, _ := Exists(p); ok {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	parts := append([]string{root}, dirs...)
	return filepath.Join(append(parts, p)...)
}

// EnsureParent 建立檔案所在目錄
func EnsureParent(file string) error {
	dir := filepath.Dir(file)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
