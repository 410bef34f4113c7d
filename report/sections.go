package report

import (
	"strconv"
	"time"

	"github.com/ByLCY/inspecta/binding"
	"github.com/ByLCY/inspecta/layout"
	"github.com/ByLCY/inspecta/schema"
)

const (
	dateLayout      = "02.01.2006"
	timestampLayout = "02.01.2006 15:04"
	maxDrivers      = 2
)

// Record keys.
const (
	keyDocumentID         = "belgeNo"
	keyDate               = "tarih"
	keyCarrier            = "tasiyiciFirma"
	keyLocation           = "kontrolYeri"
	keyShipmentType       = "sevkiyatTuru"
	keyDestination        = "varisYeri"
	keyExport             = "ihracatMi"
	keyLoadingDone        = "yuklemeTamamlandi"
	keyVehicleType        = "aracTipi"
	keyTractorPlate       = "cekiciPlaka"
	keyTrailerPlate       = "dorsePlaka"
	keyContainerNo        = "konteynerNo"
	keyDriverCount        = "soforSayisi"
	keyDrivers            = "soforler"
	keyHasExistingSeal    = "mevcutMuhurVar"
	keyExistingSeal       = "mevcutMuhur"
	keyNewSeal            = "yeniMuhur"
	keyInspector          = "kontrolEden"
	keyInspectedAt        = "kontrolTarihi"
	keyOverallResult      = "genelSonuc"
	keyInspectorSignature = "kontrolEdenImza"
)

// sealChecks lists the four checks of a seal block after its number.
var sealChecks = []struct{ key, label string }{
	{"saglam", "Sağlam"},
	{"numaraUyumlu", "Numara Uyumlu"},
	{"kurcalanmamis", "Kurcalanmamış"},
	{"kayitUyumlu", "Kayıtla Uyumlu"},
}

// assembler draws the fixed section sequence for one record.
type assembler struct {
	schema *schema.Schema
	rec    binding.Record
	now    time.Time
	lc     *layout.Context
}

func (a *assembler) run() error {
	a.lc.InfoBlock(
		"Belge No: "+a.text(keyDocumentID),
		"Tarih: "+a.date(),
	)
	a.lc.Title(a.schema.Title)

	steps := []func() error{
		a.basicInfo,
		a.vehicleInfo,
		a.drivers,
		a.seals,
		func() error { return a.checklist(schema.Physical) },
		func() error { return a.checklist(schema.Concealment) },
		a.inspector,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (a *assembler) basicInfo() error {
	a.lc.SectionHeader(a.schema.SectionTitle("basic"))
	return a.lc.Columns(a.spacing(),
		func(col layout.Column) error {
			a.lc.LabelValue("Taşıyıcı Firma", a.text(keyCarrier), col)
			a.lc.LabelValue("Kontrol Yeri", a.text(keyLocation), col)
			a.lc.LabelValue("Sevkiyat Türü", a.text(keyShipmentType), col)
			return nil
		},
		func(col layout.Column) error {
			a.lc.LabelValue("Varış Yeri", a.text(keyDestination), col)
			a.lc.LabelValue("İhracat", yesNo(a.rec[keyExport]), col)
			a.lc.LabelValue("Yükleme Tamamlandı", yesNo(a.rec[keyLoadingDone]), col)
			return nil
		},
	)
}

func (a *assembler) vehicleInfo() error {
	a.lc.SectionHeader(a.schema.SectionTitle("vehicle"))
	return a.lc.Columns(a.spacing(),
		func(col layout.Column) error {
			a.lc.LabelValue("Araç Tipi", a.text(keyVehicleType), col)
			a.lc.LabelValue("Çekici Plaka", a.text(keyTractorPlate), col)
			return nil
		},
		func(col layout.Column) error {
			a.lc.LabelValue("Dorse Plaka", a.text(keyTrailerPlate), col)
			a.lc.LabelValue("Konteyner No", a.text(keyContainerNo), col)
			return nil
		},
	)
}

func (a *assembler) drivers() error {
	a.lc.SectionHeader(a.schema.SectionTitle("drivers"))
	n := driverCount(a.rec)
	writers := make([]layout.ColumnWriter, 0, n)
	for i := 0; i < n; i++ {
		writers = append(writers, func(col layout.Column) error {
			a.lc.Subheading("Sürücü "+strconv.Itoa(i+1), col)
			a.lc.LabelValue("Ad Soyad", a.text(keyDrivers, i, "adSoyad"), col)
			a.lc.LabelValue("Telefon", a.text(keyDrivers, i, "telefon"), col)
			a.signature(col, binding.ResolveString(a.rec, binding.Path{keyDrivers, i, "imza"}))
			return nil
		})
	}
	return a.lc.Columns(a.spacing(), writers...)
}

func (a *assembler) seals() error {
	a.lc.SectionHeader(a.schema.SectionTitle("seals"))
	var writers []layout.ColumnWriter
	if binding.Truthy(a.rec[keyHasExistingSeal]) {
		writers = append(writers, a.sealBlock("Mevcut Mühür", keyExistingSeal))
	}
	writers = append(writers, a.sealBlock("Yeni Mühür", keyNewSeal))
	return a.lc.Columns(a.spacing(), writers...)
}

func (a *assembler) sealBlock(title, key string) layout.ColumnWriter {
	return func(col layout.Column) error {
		a.lc.Subheading(title, col)
		a.lc.LabelValue("Mühür No", a.text(key, "numara"), col)
		for _, check := range sealChecks {
			a.lc.LabelValue(check.label, yesNo(binding.Resolve(a.rec, binding.Path{key, check.key}, nil)), col)
		}
		return nil
	}
}

func (a *assembler) checklist(name string) error {
	list, _ := a.schema.Checklist(name)
	a.lc.SectionHeader(a.schema.SectionTitle(name))
	var notes []any
	if list.NotesField != "" {
		notes = binding.AsSlice(a.rec[list.NotesField])
	}
	a.lc.ControlTable(list.Labels, binding.AsSlice(a.rec[list.RecordField]), notes)
	a.lc.Gap(a.spacing())
	return nil
}

func (a *assembler) inspector() error {
	a.lc.SectionHeader(a.schema.SectionTitle("inspector"))
	return a.lc.Columns(a.spacing(),
		func(col layout.Column) error {
			a.lc.LabelValue("Kontrol Eden", a.text(keyInspector), col)
			a.lc.LabelValue("Kontrol Tarihi", a.timestamp(), col)
			a.lc.LabelValue("Genel Sonuç", overallResult(a.rec[keyOverallResult]), col)
			return nil
		},
		func(col layout.Column) error {
			a.signature(col, binding.ResolveString(a.rec, binding.Path{keyInspectorSignature}))
			return nil
		},
	)
}

func (a *assembler) signature(col layout.Column, payload string) {
	a.lc.SignatureBox(payload, col, a.schema.Signature.Width, a.schema.Signature.Height)
}

func (a *assembler) spacing() float64 { return a.schema.Metrics.SectionSpacing }

// text resolves a scalar field; missing values become "-".
func (a *assembler) text(path ...any) string {
	if s := binding.ResolveString(a.rec, binding.Path(path)); s != "" {
		return s
	}
	return layout.Placeholder
}

func (a *assembler) date() string {
	if s, ok := a.timeField(keyDate, dateLayout); ok {
		return s
	}
	return a.now.Format(dateLayout)
}

// timestamp falls back to the generation time, so output without kontrolTarihi
// differs between runs.
func (a *assembler) timestamp() string {
	if s, ok := a.timeField(keyInspectedAt, timestampLayout); ok {
		return s
	}
	return a.now.Format(timestampLayout)
}

// timeField formats a date field given either as text or as a decoded time.Time.
func (a *assembler) timeField(key, out string) (string, bool) {
	if t, ok := a.rec[key].(time.Time); ok && !t.IsZero() {
		return t.Format(out), true
	}
	if s := binding.ResolveString(a.rec, binding.Path{key}); s != "" {
		return formatTime(s, out), true
	}
	return "", false
}

// driverCount uses soforSayisi when present, else the number of driver entries,
// clamped to 1..2.
func driverCount(rec binding.Record) int {
	n := 0
	if s := binding.ResolveString(rec, binding.Path{keyDriverCount}); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			n = v
		}
	}
	if n == 0 {
		n = len(binding.AsSlice(rec[keyDrivers]))
	}
	return min(max(n, 1), maxDrivers)
}

func yesNo(raw any) string {
	v, ok := binding.ParseFlag(raw)
	switch {
	case !ok:
		return layout.Placeholder
	case v:
		return "Evet"
	default:
		return "Hayır"
	}
}

func overallResult(raw any) string {
	switch binding.NormalizeSuitability(raw) {
	case binding.Suitable:
		return "UYGUN"
	case binding.NotSuitable:
		return "UYGUN DEĞİL"
	}
	if s := binding.ResolveString(map[string]any{"v": raw}, binding.Path{"v"}); s != "" {
		return s
	}
	return layout.Placeholder
}

// formatTime reformats RFC 3339 or date-only values; anything else is shown as given.
func formatTime(s, out string) string {
	for _, in := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(in, s); err == nil {
			return t.Format(out)
		}
	}
	return s
}
