package entity

import "github.com/pacsforge/siteserver/pkg/document"

// DicomClient field-group bits.
const (
	DicomClientInfoName    uint64 = 1
	DicomClientInfoAETitle uint64 = 2
	DicomClientInfoTarget  uint64 = 4
	DicomClientInfoStatus  uint64 = 8
)

// DicomAE field-group bits.
const (
	DicomAEInfoTitle   uint64 = 1
	DicomAEInfoClients uint64 = 2
	DicomAEInfoPort    uint64 = 4
	DicomAEInfoStatus  uint64 = 8
)

// DicomClient is a remote DICOM node allowed to talk to an application
// entity. The target group introduces host, port and called AE as one
// unit: all three are present or all three are absent.
var DicomClient = &Spec{
	Name:  "dicomclient",
	Table: "dicom_clients",
	Groups: []Group{
		{Bit: DicomClientInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(64, true)},
		}},
		{Bit: DicomClientInfoAETitle, Name: "aetitle", Fields: []Field{
			{Key: "aetitle", Column: "aetitle", Default: "", Check: document.String(16, true)},
		}},
		{Bit: DicomClientInfoTarget, Name: "target", Fields: []Field{
			{Key: "host", Column: "host", Default: "", Check: document.String(255, true)},
			{Key: "port", Column: "port", Default: 0, Check: document.Int(0, 65535)},
			{Key: "called_ae", Column: "called_ae", Default: "", Check: document.String(16, true)},
		}},
		{Bit: DicomClientInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "active", Check: statusCheck()},
		}},
	},
}

// DicomAE is a local application entity; the clients group is an array of
// dicomclient documents, each validated with its own flags.
var DicomAE = &Spec{
	Name:  "dicomae",
	Table: "dicom_aes",
	Groups: []Group{
		{Bit: DicomAEInfoTitle, Name: "title", Fields: []Field{
			{Key: "title", Column: "title", Default: "", Check: document.String(16, true)},
		}},
		{Bit: DicomAEInfoClients, Name: "clients", Fields: []Field{
			{Key: "clients", Sub: DicomClient},
		}},
		{Bit: DicomAEInfoPort, Name: "port", Fields: []Field{
			{Key: "port", Column: "port", Default: 0, Check: document.Int(0, 65535)},
		}},
		{Bit: DicomAEInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "active", Check: statusCheck()},
		}},
	},
}
