package entity

import "github.com/pacsforge/siteserver/pkg/document"

// Report field-group bits.
const (
	ReportInfoUID    uint64 = 1
	ReportInfoStatus uint64 = 2
	ReportInfoBody   uint64 = 4
	ReportInfoStudy  uint64 = 8
)

// ReportTemplate field-group bits.
const (
	ReportTemplateInfoName uint64 = 1
	ReportTemplateInfoBody uint64 = 2
	ReportTemplateInfoKind uint64 = 4
)

// Report is a diagnostic report attached to a study.
var Report = &Spec{
	Name:  "report",
	Table: "reports",
	Groups: []Group{
		{Bit: ReportInfoUID, Name: "uid", Fields: []Field{
			{Key: "uid", Column: "uid", Default: "", Check: dicomUID(64)},
		}},
		{Bit: ReportInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "draft",
				Check: document.Enum("draft", "final", "amended", "deleted")},
		}},
		{Bit: ReportInfoBody, Name: "body", Fields: []Field{
			{Key: "body", Column: "body", Default: "", Check: document.String(65535, true)},
		}},
		{Bit: ReportInfoStudy, Name: "study", Fields: []Field{
			{Key: "study_uid", Column: "study_uid", Default: "", Check: dicomUID(64)},
		}},
	},
}

// ReportTemplate is a reusable report skeleton.
var ReportTemplate = &Spec{
	Name:  "reporttemplate",
	Table: "report_templates",
	Groups: []Group{
		{Bit: ReportTemplateInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(128, true)},
		}},
		{Bit: ReportTemplateInfoBody, Name: "body", Fields: []Field{
			{Key: "body", Column: "body", Default: "", Check: document.String(65535, true)},
		}},
		{Bit: ReportTemplateInfoKind, Name: "kind", Fields: []Field{
			{Key: "kind", Column: "kind", Default: "plain",
				Check: document.Enum("plain", "structured")},
		}},
	},
}
