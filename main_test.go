package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ByLCY/inspecta/binding"
	"github.com/ByLCY/inspecta/config"
)

const yamlRecord = `
belgeNo: MK-7
tarih: 2025-03-14
soforSayisi: 1
soforler:
  - adSoyad: Ali Veli
    telefon: "0555 000 00 00"
mevcutMuhurVar: hayır
yeniMuhur:
  numara: TR-9
  saglam: evet
fizikselKontrol: [uygun, uygun, uygun, uygun, uygun]
kontrolTarihi: "2025-03-14T10:45:00Z"
`

func TestReadRecordYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "record.yaml")
	jsonPath := filepath.Join(dir, "record.json")
	if err := os.WriteFile(yamlPath, []byte(yamlRecord), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(`{"belgeNo":"MK-7","soforSayisi":1,"fizikselKontrol":[true,false]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	fromYAML, err := readRecord(yamlPath)
	if err != nil {
		t.Fatalf("读取 YAML 记录失败: %v", err)
	}
	if fromYAML["belgeNo"] != "MK-7" || binding.ResolveString(fromYAML, binding.Path{"tarih"}) != "2025-03-14T00:00:00Z" {
		t.Fatalf("YAML 字段不符: %v", fromYAML)
	}
	fromJSON, err := readRecord(jsonPath)
	if err != nil {
		t.Fatalf("读取 JSON 记录失败: %v", err)
	}
	if fromJSON["soforSayisi"] != float64(1) {
		t.Fatalf("JSON 字段不符: %v", fromJSON)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readRecord(bad); err == nil {
		t.Fatalf("非法 JSON 应返回错误")
	}
	if _, err := readRecord(filepath.Join(dir, "absent.json")); err == nil {
		t.Fatalf("缺失文件应返回错误")
	}
}

func TestRunWritesAndStoresPDF(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "record.yml")
	if err := os.WriteFile(input, []byte(yamlRecord), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Fonts.Dir = filepath.Join(dir, "fonts")
	cfg.Storage.BasePath = filepath.Join(dir, "store")
	cfg.Storage.BaseURL = "https://example.com/docs"

	opts := options{
		input:     input,
		output:    filepath.Join(dir, "out", "inspection.pdf"),
		debugPath: filepath.Join(dir, "out", "layout.json"),
		store:     true,
	}
	url, err := run(context.Background(), opts, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("run 失败: %v", err)
	}

	pdf, err := os.ReadFile(opts.output)
	if err != nil || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("输出文件不是 PDF: %v", err)
	}
	if _, err := os.Stat(opts.debugPath); err != nil {
		t.Fatalf("未生成调试 JSON: %v", err)
	}
	if !strings.HasPrefix(url, "https://example.com/docs/") || !strings.Contains(url, "MK-7-") {
		t.Fatalf("下载地址不符: %q", url)
	}
}
