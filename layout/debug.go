package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DebugJSON 将布局结果序列化为缩进 JSON；签名图片只保留位置，不输出像素。
func DebugJSON(res *Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("布局结果为空")
	}
	return json.MarshalIndent(res, "", "  ")
}

// WriteDebugJSON 将布局结果写入 path，必要时创建目录，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	data, err := DebugJSON(res)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
