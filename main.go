package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/inspecta/binding"
	"github.com/ByLCY/inspecta/config"
	"github.com/ByLCY/inspecta/layout"
	"github.com/ByLCY/inspecta/logger"
	"github.com/ByLCY/inspecta/report"
	"github.com/ByLCY/inspecta/schema"
	"github.com/ByLCY/inspecta/storage"
)

// options 汇总命令行参数。
type options struct {
	input      string
	output     string
	schemaPath string
	debugPath  string
	store      bool
}

func main() {
	input := flag.String("in", "record.json", "表单记录文件路径（JSON 或 YAML）")
	output := flag.String("out", "output/inspection.pdf", "PDF 输出路径")
	schemaPath := flag.String("schema", "", "表单 schema 文件路径，留空使用内置表单")
	configPath := flag.String("config", "", "配置文件路径，留空时查找 inspecta.yaml")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	store := flag.Bool("store", false, "同时存入文档存储目录并输出下载地址")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	lg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Sync()

	opts := options{
		input:      *input,
		output:     *output,
		schemaPath: *schemaPath,
		debugPath:  *debug,
		store:      *store,
	}
	if opts.schemaPath == "" {
		opts.schemaPath = cfg.Schema.Path
	}
	url, err := run(context.Background(), opts, cfg, lg)
	if err != nil {
		lg.Error("生成 PDF 失败", zap.Error(err))
		lg.Sync()
		os.Exit(1)
	}
	fmt.Printf("已生成 PDF：%s\n", opts.output)
	if url != "" {
		fmt.Printf("下载地址：%s\n", url)
	}
}

// run 串联记录读取、布局、渲染与可选存储，返回存储后的下载地址。
func run(ctx context.Context, opts options, cfg *config.Config, lg *zap.Logger) (string, error) {
	rec, err := readRecord(opts.input)
	if err != nil {
		return "", err
	}
	s, err := schema.Load(opts.schemaPath)
	if err != nil {
		return "", fmt.Errorf("加载表单 schema 失败: %w", err)
	}

	gen, err := report.New(report.Options{
		Schema:  s,
		FontDir: cfg.Fonts.Dir,
		Logger:  lg,
	})
	if err != nil {
		return "", err
	}
	doc, err := gen.Generate(ctx, rec)
	if err != nil {
		return "", err
	}
	defer gen.Previews().Revoke(doc.Preview.ID)

	if opts.debugPath != "" {
		if err := layout.WriteDebugJSON(doc.Layout, opts.debugPath); err != nil {
			return "", fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdf, err := gen.Previews().Bytes(doc.Preview.ID)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(opts.output, pdf, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	if !opts.store {
		return "", nil
	}
	st, err := storage.NewFileSystemStorage(storage.Config{
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
		Logger:   lg.Named("storage"),
	})
	if err != nil {
		return "", err
	}
	res, err := st.Store(ctx, &storage.StoreRequest{
		DocumentNo: binding.ResolveString(rec, binding.Path{"belgeNo"}),
		Data:       pdf,
	})
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// readRecord 按扩展名读取 JSON 或 YAML 表单记录。
func readRecord(path string) (binding.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取记录文件 %s: %w", path, err)
	}
	var rec binding.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rec)
	default:
		err = json.Unmarshal(data, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("解析记录文件 %s 失败: %w", path, err)
	}
	return rec, nil
}
