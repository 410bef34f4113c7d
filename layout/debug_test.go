package layout

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDebugJSON(t *testing.T) {
	c := newTestContext(DefaultMetrics())
	c.SectionHeader("Temel Bilgiler")
	c.page.Images = append(c.page.Images, ImageBox{
		Box:    Box{X: 30, Y: 100, Width: 120, Height: 30},
		Source: "signature",
		Image:  image.NewRGBA(image.Rect(0, 0, 4, 4)),
	})
	res := c.Result(DocumentMeta{Title: "Kontrol"})

	path := filepath.Join(t.TempDir(), "debug", "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}

	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if decoded.Meta.Title != "Kontrol" {
		t.Fatalf("元数据丢失: %+v", decoded.Meta)
	}
	if len(decoded.Page.Texts) != len(res.Page.Texts) || len(decoded.Page.Rects) != 1 {
		t.Fatalf("页面内容不一致: texts=%d rects=%d", len(decoded.Page.Texts), len(decoded.Page.Rects))
	}
	if len(decoded.Page.Images) != 1 || decoded.Page.Images[0].Image != nil || decoded.Page.Images[0].Width != 120 {
		t.Fatalf("签名图片应只保留位置: %+v", decoded.Page.Images)
	}
}

func TestDebugJSONNilResult(t *testing.T) {
	if _, err := DebugJSON(nil); err == nil {
		t.Fatalf("空布局结果应返回错误")
	}
}
