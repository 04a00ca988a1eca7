// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
)

// OpenMode selects how aggressively a package's auxiliary categories are
// hydrated on open (§4.2).
type OpenMode int

const (
	// OpenLazy defers every auxiliary category until first touch.
	OpenLazy OpenMode = iota
	// OpenEager hydrates every category immediately.
	OpenEager
	// OpenStreaming defers every category and additionally skips
	// materializing large parts (images, drawings) until explicitly
	// requested.
	OpenStreaming
)

// OpenOptions configures Open/OpenFile (§4.1, §4.2).
type OpenOptions struct {
	Mode          OpenMode
	Password      string
	SheetRows     int      // if > 0, truncate each sheet to its first SheetRows rows on read
	Sheets        []string // if non-nil, only load the named sheets
	MaxUnzipSize  int64    // 0 means a sane built-in default
	MaxZipEntries int      // 0 means a sane built-in default
}

const (
	defaultMaxUnzipSize  = 1 << 30 // 1 GiB
	defaultMaxZipEntries = 100000
)

func (o OpenOptions) limits() (int64, int) {
	maxSize := o.MaxUnzipSize
	if maxSize <= 0 {
		maxSize = defaultMaxUnzipSize
	}
	maxEntries := o.MaxZipEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxZipEntries
	}
	return maxSize, maxEntries
}

// charsetReader lets the XML decoder accept encoding declarations other
// than UTF-8 (e.g. legacy UTF-16 workbooks), via golang.org/x/net/html/charset.
func charsetReader(enc string, input io.Reader) (io.Reader, error) {
	return charset.NewReaderLabel(enc, input)
}

func decodeXML(data []byte, v interface{}) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	return dec.Decode(v)
}

// OpenFile opens an .xlsx package from disk.
func OpenFile(filename string, opts ...OpenOptions) (*Workbook, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, wrapf(ErrIO, "open %s: %v", filename, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, wrapf(ErrIO, "stat %s: %v", filename, err)
	}
	return Open(f, info.Size(), opts...)
}

// Open parses an .xlsx (or Agile-encrypted .xlsx) package from r, per the
// read data-flow of §4.1: eager parts parsed immediately, everything else
// classified into the deferred-parts index.
func Open(r io.ReaderAt, size int64, opts ...OpenOptions) (*Workbook, error) {
	var o OpenOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	maxSize, maxEntries := o.limits()

	raw, err := readAllBytes(r, size)
	if err != nil {
		return nil, err
	}
	if isEncryptedPackage(r) {
		plain, err := readEncryptedPackage(r, size, o.Password)
		if err != nil {
			return nil, err
		}
		raw = plain
		r = bytes.NewReader(raw)
		size = int64(len(raw))
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), size)
	if err != nil {
		return nil, wrapf(ErrZip, "invalid zip container: %v", err)
	}
	if len(zr.File) > maxEntries {
		return nil, wrapf(ErrZip, "archive has %d entries, exceeding limit %d", len(zr.File), maxEntries)
	}

	entries := map[string][]byte{}
	var total int64
	for _, zf := range zr.File {
		total += int64(zf.UncompressedSize64)
		if total > maxSize {
			return nil, wrapf(ErrZip, "archive exceeds uncompressed size limit %d", maxSize)
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, wrapf(ErrZip, "open entry %s: %v", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, wrapf(ErrZip, "read entry %s: %v", zf.Name, err)
		}
		entries[normalizeZipPath(zf.Name)] = data
	}

	return buildWorkbookFromEntries(entries, o)
}

func readAllBytes(r io.ReaderAt, size int64) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, wrapf(ErrIO, "read package: %v", err)
	}
	return buf, nil
}

func normalizeZipPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func buildWorkbookFromEntries(entries map[string][]byte, o OpenOptions) (*Workbook, error) {
	wb := &Workbook{
		sheets:       map[string]*Sheet{},
		DefinedNames: map[string]string{},
		parts:        newPartIndex(),
	}

	if ctData, ok := entries["[Content_Types].xml"]; ok {
		var ct xlsxTypes
		if err := decodeXML(ctData, &ct); err == nil {
			wb.origContentTypes = &ct
		}
	}

	rootRelsData, ok := entries["_rels/.rels"]
	if !ok {
		return nil, wrapf(ErrXMLDeserialize, "missing _rels/.rels")
	}
	var rootRels xlsxRelationships
	if err := decodeXML(rootRelsData, &rootRels); err != nil {
		return nil, wrapf(ErrXMLParse, "_rels/.rels: %v", err)
	}
	workbookPath := "xl/workbook.xml"
	corePropsPath, appPropsPath, customPropsPath := "", "", ""
	for _, rel := range rootRels.Relationships {
		switch rel.Type {
		case RelTypeOfficeDocument:
			workbookPath = resolveRelationshipTarget("", rel.Target)
		case RelTypeCoreProps:
			corePropsPath = resolveRelationshipTarget("", rel.Target)
		case RelTypeAppProps:
			appPropsPath = resolveRelationshipTarget("", rel.Target)
		case RelTypeCustomProps:
			customPropsPath = resolveRelationshipTarget("", rel.Target)
		}
	}

	wbData, ok := entries[workbookPath]
	if !ok {
		return nil, wrapf(ErrXMLDeserialize, "missing %s", workbookPath)
	}
	var xwb xlsxWorkbook
	if err := decodeXML(wbData, &xwb); err != nil {
		return nil, wrapf(ErrXMLParse, "%s: %v", workbookPath, err)
	}

	wbRelsPath := relsPathFor(workbookPath)
	var wbRels xlsxRelationships
	if data, ok := entries[wbRelsPath]; ok {
		if err := decodeXML(data, &wbRels); err != nil {
			return nil, wrapf(ErrXMLParse, "%s: %v", wbRelsPath, err)
		}
	}
	relByID := map[string]string{}
	for _, rel := range wbRels.Relationships {
		relByID[rel.ID] = resolveRelationshipTarget(workbookPath, rel.Target)
	}

	stylesPath := ""
	sstPath := ""
	for _, rel := range wbRels.Relationships {
		switch rel.Type {
		case RelTypeStyles:
			stylesPath = resolveRelationshipTarget(workbookPath, rel.Target)
		case RelTypeSharedStrings:
			sstPath = resolveRelationshipTarget(workbookPath, rel.Target)
		}
	}

	wb.Styles = NewStylesheet()
	if stylesPath != "" {
		if data, ok := entries[stylesPath]; ok {
			var xss xlsxStyleSheet
			if err := decodeXML(data, &xss); err != nil {
				return nil, wrapf(ErrXMLParse, "%s: %v", stylesPath, err)
			}
			wb.Styles = unmarshalStylesheet(&xss)
		}
	}

	wb.SharedStrings = NewSharedStrings()
	if sstPath != "" {
		if data, ok := entries[sstPath]; ok {
			var xsst xlsxSST
			if err := decodeXML(data, &xsst); err != nil {
				return nil, wrapf(ErrXMLParse, "%s: %v", sstPath, err)
			}
			wb.SharedStrings = loadSharedStringsFromXML(&xsst)
		}
	}

	usedPaths := map[string]bool{
		"_rels/.rels": true, "[Content_Types].xml": true,
		workbookPath: true, wbRelsPath: true, stylesPath: true, sstPath: true,
	}

	wb.CustomProperties = map[string]string{}
	if corePropsPath != "" {
		usedPaths[corePropsPath] = true
		if data, ok := entries[corePropsPath]; ok {
			if props, err := unmarshalCoreProperties(data); err == nil {
				wb.Properties = props
			}
		}
	}
	if appPropsPath != "" {
		usedPaths[appPropsPath] = true
		if data, ok := entries[appPropsPath]; ok {
			if company, err := unmarshalAppProperties(data); err == nil {
				wb.Properties.Company = company
			}
		}
	}
	if customPropsPath != "" {
		usedPaths[customPropsPath] = true
		if data, ok := entries[customPropsPath]; ok {
			if props, err := unmarshalCustomProperties(data); err == nil {
				wb.CustomProperties = props
			}
		}
	}

	onlySheets := map[string]bool{}
	for _, name := range o.Sheets {
		onlySheets[name] = true
	}

	for _, xs := range xwb.Sheets.Sheet {
		target, ok := relByID[xs.ID]
		if !ok {
			continue
		}
		usedPaths[target] = true
		if o.Sheets != nil && !onlySheets[xs.Name] {
			continue
		}
		data, ok := entries[target]
		if !ok {
			continue
		}
		var xws xlsxWorksheet
		if err := decodeXML(data, &xws); err != nil {
			return nil, wrapf(ErrXMLParse, "%s: %v", target, err)
		}
		if o.SheetRows > 0 {
			rows := xws.SheetData.Row[:0]
			for _, xr := range xws.SheetData.Row {
				if xr.R <= o.SheetRows {
					rows = append(rows, xr)
				}
			}
			xws.SheetData.Row = rows
		}
		sheet := unmarshalWorksheet(xs.Name, &xws, wb)
		if sheetRelsData, ok := entries[relsPathFor(target)]; ok {
			var sheetRels xlsxRelationships
			if err := decodeXML(sheetRelsData, &sheetRels); err == nil {
				for _, rel := range sheetRels.Relationships {
					switch rel.Type {
					case RelTypeDrawing:
						sheet.pendingDrawingPath = resolveRelationshipTarget(target, rel.Target)
					case RelTypeComments:
						sheet.pendingCommentsPath = resolveRelationshipTarget(target, rel.Target)
					case RelTypeTable:
						sheet.pendingTablePaths = append(sheet.pendingTablePaths, resolveRelationshipTarget(target, rel.Target))
					case RelTypeVMLDrawing:
						sheet.pendingVMLPath = resolveRelationshipTarget(target, rel.Target)
					}
				}
			}
		}
		wb.sheets[xs.Name] = sheet
		wb.sheetOrder = append(wb.sheetOrder, xs.Name)
	}
	for i, v := range xwb.BookViews.WorkBookView {
		if i == 0 && v.ActiveTab < len(wb.sheetOrder) {
			wb.activeSheet = wb.sheetOrder[v.ActiveTab]
		}
	}
	if wb.activeSheet == "" && len(wb.sheetOrder) > 0 {
		wb.activeSheet = wb.sheetOrder[0]
	}
	if xwb.DefinedNames != nil {
		for _, dn := range xwb.DefinedNames.DefinedName {
			wb.DefinedNames[dn.Name] = dn.Value
		}
	}

	for p, data := range entries {
		if usedPaths[p] {
			continue
		}
		if p == "xl/vbaProject.bin" {
			wb.vba = data
			continue
		}
		if cat, ok := classifyPart(p); ok {
			wb.parts.insert(cat, p, data)
		}
	}

	if o.Mode == OpenEager {
		for _, name := range wb.sheetOrder {
			sheet := wb.sheets[name]
			sheet.ensureDrawingsHydrated()
			sheet.ensureCommentsHydrated()
			sheet.ensureTablesHydrated()
			sheet.ensureFormControlsHydrated()
		}
	}

	return wb, nil
}

// resolveRelationshipTarget normalizes target, resolved relative to
// ownerPartPath's directory (§4.1); an empty owner (the package-level
// _rels/.rels) resolves from the package root.
func resolveRelationshipTarget(ownerPartPath, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	dir := path.Dir(ownerPartPath)
	if ownerPartPath == "" || dir == "." {
		return path.Clean(target)
	}
	return path.Clean(dir + "/" + target)
}

// relFromXlRoot expresses an xl/-rooted part path relative to
// xl/worksheets/, the only directory sheet relationships are resolved from.
func relFromXlRoot(p string) string {
	return "../" + strings.TrimPrefix(p, "xl/")
}

func relsPathFor(partPath string) string {
	dir := path.Dir(partPath)
	base := path.Base(partPath)
	return dir + "/_rels/" + base + ".rels"
}

// classifyPart maps a ZIP entry path to its deferred-parts category, per
// §4.2's prefix/suffix tests. Unrecognized paths return ok=false.
func classifyPart(p string) (PartCategory, bool) {
	switch {
	case strings.Contains(p, "/comments") && strings.HasSuffix(p, ".xml"):
		return CategoryComments, true
	case strings.Contains(p, "/threadedComments") && strings.HasSuffix(p, ".xml"):
		return CategoryThreadedComments, true
	case strings.HasPrefix(p, "xl/persons/"):
		return CategoryPersonList, true
	case strings.HasSuffix(p, ".vml"):
		return CategoryVML, true
	case strings.Contains(p, "/drawings/_rels/"):
		return CategoryDrawingRels, true
	case strings.HasPrefix(p, "xl/drawings/"):
		return CategoryDrawings, true
	case strings.HasPrefix(p, "xl/charts/"):
		return CategoryCharts, true
	case strings.HasPrefix(p, "xl/media/"):
		return CategoryImages, true
	case strings.HasPrefix(p, "docProps/"):
		return CategoryDocProperties, true
	case strings.HasPrefix(p, "xl/pivotTables/"):
		return CategoryPivotTables, true
	case strings.HasPrefix(p, "xl/pivotCache/"):
		return CategoryPivotCaches, true
	case strings.HasPrefix(p, "xl/tables/"):
		return CategoryTables, true
	case strings.HasPrefix(p, "xl/slicers/"):
		return CategorySlicers, true
	case strings.HasPrefix(p, "xl/slicerCaches/"):
		return CategorySlicerCaches, true
	}
	return 0, false
}

// Save serializes wb to w as a ZIP package, per the write data-flow of
// §4.1: eager parts from the typed model, auxiliary categories typed-or-raw.
func Save(wb *Workbook, w io.Writer) error {
	zw := zip.NewWriter(w)

	writeXML := func(name string, v interface{}) error {
		fw, err := zw.Create(name)
		if err != nil {
			return wrapf(ErrZip, "create %s: %v", name, err)
		}
		fw.Write([]byte(xml.Header))
		enc := xml.NewEncoder(fw)
		return enc.Encode(v)
	}

	sheetNames := wb.SheetNames()
	xwb := defaultWorkbookXML()
	wbRels := &xlsxRelationships{}
	contentTypes := defaultContentTypes()

	for i, name := range sheetNames {
		target := fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		rid := addRelationship(wbRels, RelTypeWorksheet, target, "")
		state := ""
		if s, _ := wb.Sheet(name); s != nil && s.Hidden {
			state = "hidden"
		}
		xwb.Sheets.Sheet = append(xwb.Sheets.Sheet, xlsxSheet{Name: name, SheetID: i + 1, ID: rid, State: state})
		contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
			PartName: "/xl/" + target, ContentType: ContentTypeWorksheet,
		})
	}
	for i, name := range sheetNames {
		if name == wb.activeSheet {
			xwb.BookViews.WorkBookView[0].ActiveTab = i
		}
	}
	if len(wb.DefinedNames) > 0 {
		dn := &xlsxDefinedNames{}
		keys := make([]string, 0, len(wb.DefinedNames))
		for k := range wb.DefinedNames {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dn.DefinedName = append(dn.DefinedName, xlsxDefinedName{Name: k, Value: wb.DefinedNames[k]})
		}
		xwb.DefinedNames = dn
	}

	addRelationship(wbRels, RelTypeStyles, "styles.xml", "")
	contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
		PartName: "/xl/styles.xml", ContentType: ContentTypeStyles,
	})
	addRelationship(wbRels, RelTypeSharedStrings, "sharedStrings.xml", "")
	contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
		PartName: "/xl/sharedStrings.xml", ContentType: ContentTypeSharedStrings,
	})

	if wb.vba != nil {
		addRelationship(wbRels, RelTypeVBAProject, "vbaProject.bin", "")
		contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
			PartName: "/xl/vbaProject.bin", ContentType: ContentTypeVBA,
		})
		for i := range contentTypes.Overrides {
			if contentTypes.Overrides[i].PartName == "/xl/workbook.xml" {
				contentTypes.Overrides[i].ContentType = ContentTypeMacroWorkbook
			}
		}
	}

	rootRels := &xlsxRelationships{}
	addRelationship(rootRels, RelTypeOfficeDocument, "xl/workbook.xml", "")
	addRelationship(rootRels, RelTypeCoreProps, "docProps/core.xml", "")
	addRelationship(rootRels, RelTypeAppProps, "docProps/app.xml", "")
	if len(wb.CustomProperties) > 0 {
		addRelationship(rootRels, RelTypeCustomProps, "docProps/custom.xml", "")
		contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
			PartName: "/docProps/custom.xml", ContentType: ContentTypeCustomProps,
		})
	}

	if err := writeXML("_rels/.rels", rootRels); err != nil {
		return err
	}
	if err := writeXML("docProps/core.xml", marshalCoreProperties(wb.Properties)); err != nil {
		return err
	}
	if err := writeXML("docProps/app.xml", marshalAppProperties(wb.Properties)); err != nil {
		return err
	}
	if xc := marshalCustomProperties(wb.CustomProperties); xc != nil {
		if err := writeXML("docProps/custom.xml", xc); err != nil {
			return err
		}
	}
	if err := writeXML("xl/workbook.xml", xwb); err != nil {
		return err
	}
	if err := writeXML("xl/_rels/workbook.xml.rels", wbRels); err != nil {
		return err
	}
	if err := writeXML("xl/styles.xml", marshalStylesheet(wb.Styles)); err != nil {
		return err
	}
	if err := writeXML("xl/sharedStrings.xml", marshalSharedStrings(wb.SharedStrings)); err != nil {
		return err
	}
	drawingCounter := 0
	chartCounter := 0
	imageCounter := 0
	tableCounter := 0
	commentsCounter := 0
	vmlCounter := 0
	needVMLDefault := false

	for i, name := range sheetNames {
		s, err := wb.Sheet(name)
		if err != nil {
			return err
		}
		xws := marshalWorksheet(s)
		sheetTarget := fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		sheetRels := &xlsxRelationships{}

		if !s.drawingsHydrated && s.pendingDrawingPath != "" {
			// Never touched: the raw drawing (and its rels/images/charts)
			// pass through verbatim via the untouched-parts loop below; only
			// the sheet's own relationship to it needs to be re-emitted.
			rid := addRelationship(sheetRels, RelTypeDrawing, relFromXlRoot(s.pendingDrawingPath), "")
			xws.Drawing = &xlsxDrawingRef{RID: rid}
		} else if len(s.Images) > 0 || len(s.Charts) > 0 || len(s.Shapes) > 0 {
			drawingCounter++
			drawingID := drawingCounter
			imageNames := make([]string, len(s.Images))
			for j, img := range s.Images {
				imageCounter++
				imageNames[j] = fmt.Sprintf("image%d%s", imageCounter, normalizeImageExt(img.Ext))
			}
			chartNames := make([]string, len(s.Charts))
			for j := range s.Charts {
				chartCounter++
				chartNames[j] = fmt.Sprintf("chart%d.xml", chartCounter)
			}
			wsDr, drRels := marshalDrawing(s, func(j int) string { return imageNames[j] }, func(j int) string { return chartNames[j] })

			if err := writeXML(fmt.Sprintf("xl/drawings/drawing%d.xml", drawingID), wsDr); err != nil {
				return err
			}
			if len(drRels) > 0 {
				if err := writeXML(fmt.Sprintf("xl/drawings/_rels/drawing%d.xml.rels", drawingID), &xlsxRelationships{Relationships: drRels}); err != nil {
					return err
				}
			}
			for j, img := range s.Images {
				fw, err := zw.Create("xl/media/" + imageNames[j])
				if err != nil {
					return wrapf(ErrZip, "create %s: %v", imageNames[j], err)
				}
				fw.Write(img.Data)
				contentTypes.Defaults = append(contentTypes.Defaults, xlsxDefault{
					Extension: strings.TrimPrefix(normalizeImageExt(img.Ext), "."), ContentType: imageContentType(img.Ext),
				})
			}
			for j, c := range s.Charts {
				var chartData []byte
				if c.RawXML != nil {
					chartData = c.RawXML
				} else {
					var buf bytes.Buffer
					buf.WriteString(xml.Header)
					enc := xml.NewEncoder(&buf)
					if err := enc.Encode(marshalChartSpace(c)); err != nil {
						return err
					}
					chartData = buf.Bytes()
				}
				fw, err := zw.Create("xl/charts/" + chartNames[j])
				if err != nil {
					return wrapf(ErrZip, "create %s: %v", chartNames[j], err)
				}
				fw.Write(chartData)
				contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
					PartName: "/xl/charts/" + chartNames[j], ContentType: ContentTypeChart,
				})
			}
			rid := addRelationship(sheetRels, RelTypeDrawing, fmt.Sprintf("../drawings/drawing%d.xml", drawingID), "")
			xws.Drawing = &xlsxDrawingRef{RID: rid}
			contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
				PartName: fmt.Sprintf("/xl/drawings/drawing%d.xml", drawingID), ContentType: ContentTypeDrawing,
			})
		} else {
			xws.Drawing = nil
		}

		if !s.tablesHydrated && len(s.pendingTablePaths) > 0 {
			tp := &xlsxTableParts{Count: len(s.pendingTablePaths)}
			for _, p := range s.pendingTablePaths {
				rid := addRelationship(sheetRels, RelTypeTable, relFromXlRoot(p), "")
				tp.TablePart = append(tp.TablePart, xlsxTablePart{RID: rid})
			}
			xws.TableParts = tp
		} else if len(s.Tables) > 0 {
			tp := &xlsxTableParts{Count: len(s.Tables)}
			for _, t := range s.Tables {
				tableCounter++
				target := fmt.Sprintf("tables/table%d.xml", tableCounter)
				if err := writeXML("xl/"+target, marshalTable(tableCounter, t)); err != nil {
					return err
				}
				rid := addRelationship(sheetRels, RelTypeTable, "../"+target, "")
				tp.TablePart = append(tp.TablePart, xlsxTablePart{RID: rid})
				contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
					PartName: "/xl/" + target, ContentType: ContentTypeTable,
				})
			}
			xws.TableParts = tp
		}

		if !s.commentsHydrated && s.pendingCommentsPath != "" {
			addRelationship(sheetRels, RelTypeComments, relFromXlRoot(s.pendingCommentsPath), "")
		} else if xc := marshalComments(s); xc != nil {
			commentsCounter++
			target := fmt.Sprintf("comments/comment%d.xml", commentsCounter)
			if err := writeXML("xl/"+target, xc); err != nil {
				return err
			}
			addRelationship(sheetRels, RelTypeComments, "../"+target, "")
			contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{
				PartName: "/xl/" + target, ContentType: ContentTypeComments,
			})
		}

		if !s.formControlsHydrated && s.pendingVMLPath != "" {
			// Raw VML part passes through verbatim below; re-point the
			// sheet's legacyDrawing relationship at it.
			rid := addRelationship(sheetRels, RelTypeVMLDrawing, relFromXlRoot(s.pendingVMLPath), "")
			xws.LegacyDrawing = &xlsxDrawingRef{RID: rid}
			needVMLDefault = true
		} else if len(s.FormControls) > 0 {
			vmlCounter++
			target := fmt.Sprintf("drawings/vmlDrawing%d.vml", vmlCounter)
			data, err := marshalVMLDrawing(s)
			if err != nil {
				return err
			}
			fw, err := zw.Create("xl/" + target)
			if err != nil {
				return wrapf(ErrZip, "create %s: %v", target, err)
			}
			fw.Write(data)
			rid := addRelationship(sheetRels, RelTypeVMLDrawing, "../"+target, "")
			xws.LegacyDrawing = &xlsxDrawingRef{RID: rid}
			needVMLDefault = true
		}

		if len(sheetRels.Relationships) > 0 {
			if err := writeXML(relsPathFor(sheetTarget), sheetRels); err != nil {
				return err
			}
		}
		if err := writeXML(sheetTarget, xws); err != nil {
			return err
		}
	}
	if wb.vba != nil {
		fw, err := zw.Create("xl/vbaProject.bin")
		if err != nil {
			return wrapf(ErrZip, "create vbaProject.bin: %v", err)
		}
		fw.Write(wb.vba)
	}

	rawPaths := wb.parts.allPaths()
	sort.Strings(rawPaths)
	for _, p := range rawPaths {
		var data []byte
		for cat := CategoryComments; cat <= CategoryVba; cat++ {
			if d, ok := wb.parts.remainingParts(cat)[p]; ok {
				data = d
				break
			}
		}
		fw, err := zw.Create(p)
		if err != nil {
			return wrapf(ErrZip, "create %s: %v", p, err)
		}
		fw.Write(data)
	}

	if needVMLDefault {
		contentTypes.Defaults = append(contentTypes.Defaults, xlsxDefault{
			Extension: "vml", ContentType: ContentTypeVMLDrawing,
		})
	}

	// Parts passing through raw keep whatever content-type declarations the
	// source package carried for them.
	if wb.origContentTypes != nil {
		haveOverride := map[string]bool{}
		for _, o := range contentTypes.Overrides {
			haveOverride[o.PartName] = true
		}
		haveDefault := map[string]bool{}
		for _, d := range contentTypes.Defaults {
			haveDefault[d.Extension] = true
		}
		origOverride := map[string]string{}
		for _, o := range wb.origContentTypes.Overrides {
			origOverride[o.PartName] = o.ContentType
		}
		origDefault := map[string]string{}
		for _, d := range wb.origContentTypes.Defaults {
			origDefault[d.Extension] = d.ContentType
		}
		for _, p := range rawPaths {
			part := "/" + p
			if ct, ok := origOverride[part]; ok && !haveOverride[part] {
				contentTypes.Overrides = append(contentTypes.Overrides, xlsxOverride{PartName: part, ContentType: ct})
				haveOverride[part] = true
				continue
			}
			ext := strings.TrimPrefix(path.Ext(p), ".")
			if ct, ok := origDefault[ext]; ok && ext != "" && !haveDefault[ext] {
				contentTypes.Defaults = append(contentTypes.Defaults, xlsxDefault{Extension: ext, ContentType: ct})
				haveDefault[ext] = true
			}
		}
	}
	if err := writeXML("[Content_Types].xml", contentTypes); err != nil {
		return err
	}

	return zw.Close()
}

// SaveFile serializes wb to a file on disk.
func SaveFile(wb *Workbook, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return wrapf(ErrIO, "create %s: %v", filename, err)
	}
	defer f.Close()
	return Save(wb, f)
}

// SaveEncrypted serializes wb and wraps it in an Agile-encrypted compound
// file under password (§4.11's write direction).
func SaveEncrypted(wb *Workbook, w io.Writer, password string) error {
	var buf bytes.Buffer
	if err := Save(wb, &buf); err != nil {
		return err
	}
	info, ciphertext, err := NewAgileEncryptedPackage(buf.Bytes(), password)
	if err != nil {
		return err
	}
	return writeCompoundFile(w, marshalAgileEncryptionInfo(info), ciphertext)
}
