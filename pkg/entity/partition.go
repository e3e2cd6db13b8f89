package entity

import "github.com/pacsforge/siteserver/pkg/document"

// Partition link field-group bits, shared by both link variants.
const (
	PartitionLinkInfoPartition uint64 = 1
	PartitionLinkInfoTarget    uint64 = 2
)

// PartitionStudyLink assigns a study to a partition.
var PartitionStudyLink = &Spec{
	Name:  "partitionstudylink",
	Table: "partition_study_links",
	Groups: []Group{
		{Bit: PartitionLinkInfoPartition, Name: "partition", Fields: []Field{
			{Key: "partition_id", Column: "partition_id", Default: "", Check: document.UUID(true)},
		}},
		{Bit: PartitionLinkInfoTarget, Name: "study", Fields: []Field{
			{Key: "study_seq", Column: "study_seq", Default: "", Check: document.UUID(true)},
		}},
	},
}

// PartitionClientLink grants a DICOM client access to a partition.
var PartitionClientLink = &Spec{
	Name:  "partitionclientlink",
	Table: "partition_client_links",
	Groups: []Group{
		{Bit: PartitionLinkInfoPartition, Name: "partition", Fields: []Field{
			{Key: "partition_id", Column: "partition_id", Default: "", Check: document.UUID(true)},
		}},
		{Bit: PartitionLinkInfoTarget, Name: "client", Fields: []Field{
			{Key: "client_seq", Column: "client_seq", Default: "", Check: document.UUID(true)},
		}},
	},
}
