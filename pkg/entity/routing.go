package entity

import "github.com/pacsforge/siteserver/pkg/document"

// RoutingRule field-group bits.
const (
	RoutingRuleInfoName      uint64 = 1
	RoutingRuleInfoTarget    uint64 = 2
	RoutingRuleInfoCondition uint64 = 4
	RoutingRuleInfoStatus    uint64 = 8
)

// Routing field-group bits.
const (
	RoutingInfoName   uint64 = 1
	RoutingInfoStatus uint64 = 2
	RoutingInfoRule   uint64 = 4
)

// RoutingLine field-group bits.
const (
	RoutingLineInfoRouting  uint64 = 1
	RoutingLineInfoPosition uint64 = 2
	RoutingLineInfoClient   uint64 = 4
)

// RoutingRule forwards matching objects to a target node. The target
// group is a co-occurring trio (host, port, AE); the condition is an
// expression document that must at least parse.
var RoutingRule = &Spec{
	Name:  "routingrule",
	Table: "routing_rules",
	Groups: []Group{
		{Bit: RoutingRuleInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(128, true)},
		}},
		{Bit: RoutingRuleInfoTarget, Name: "target", Fields: []Field{
			{Key: "target_host", Column: "target_host", Default: "", Check: document.String(255, true)},
			{Key: "target_port", Column: "target_port", Default: 0, Check: document.Int(0, 65535)},
			{Key: "target_ae", Column: "target_ae", Default: "", Check: document.String(16, true)},
		}},
		{Bit: RoutingRuleInfoCondition, Name: "condition", Fields: []Field{
			{Key: "condition", Column: "condition", Default: "", Check: document.YAMLContent(8192)},
		}},
		{Bit: RoutingRuleInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "active", Check: statusCheck()},
		}},
	},
}

// Routing groups ordered routing lines under a named plan.
var Routing = &Spec{
	Name:  "routing",
	Table: "routings",
	Groups: []Group{
		{Bit: RoutingInfoName, Name: "name", Fields: []Field{
			{Key: "name", Column: "name", Default: "", Check: document.String(128, true)},
		}},
		{Bit: RoutingInfoStatus, Name: "status", Fields: []Field{
			{Key: "status", Column: "status", Default: "active", Check: statusCheck()},
		}},
		{Bit: RoutingInfoRule, Name: "rule", Fields: []Field{
			{Key: "rule_seq", Column: "rule_seq", Default: "", Check: document.UUID(true)},
		}},
	},
}

// RoutingLine is one ordered destination inside a routing plan.
var RoutingLine = &Spec{
	Name:  "routingline",
	Table: "routing_lines",
	Groups: []Group{
		{Bit: RoutingLineInfoRouting, Name: "routing", Fields: []Field{
			{Key: "routing_id", Column: "routing_id", Default: "", Check: document.UUID(true)},
		}},
		{Bit: RoutingLineInfoPosition, Name: "position", Fields: []Field{
			{Key: "position", Column: "position", Default: 0, Check: document.Int(0, 9999)},
		}},
		{Bit: RoutingLineInfoClient, Name: "client", Fields: []Field{
			{Key: "client_seq", Column: "client_seq", Default: "", Check: document.UUID(true)},
		}},
	},
}
