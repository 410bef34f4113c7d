package renderer

import "github.com/ByLCY/inspecta/layout"

// Renderer 将布局结果输出为最终文件（PDF 字节流）。
// 渲染失败属于结构性错误，调用方应整体放弃本次生成。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// MeasuringRenderer 同时为布局阶段提供文本测量，保证测量与绘制使用同一套字体。
type MeasuringRenderer interface {
	Renderer
	layout.Measurer
	Preload(res layout.ResourceSet)
}
