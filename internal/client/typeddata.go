package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aegis-sign/governance/internal/action"
)

// Domain 是签名域。
type Domain struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// TypeField 描述 typed data 中的一个字段。
type TypeField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypedData 是交给 Signer 签名并随 envelope 提交的数据。
type TypedData struct {
	Domain      Domain                 `json:"domain"`
	Types       map[string][]TypeField `json:"types"`
	PrimaryType string                 `json:"-"`
	Message     map[string]any         `json:"message"`
}

var defaultDomain = Domain{Name: "snapshot", Version: "0.1.4"}

func fields(pairs ...string) []TypeField {
	out := make([]TypeField, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, TypeField{Name: pairs[i], Type: pairs[i+1]})
	}
	return out
}

func proposalRefType(id string) string {
	if strings.HasPrefix(id, "0x") && len(id) == 66 {
		return "bytes32"
	}
	return "string"
}

// voteChoiceType 根据投票类型决定 choice 的编码；加密投票统一为 string。
func voteChoiceType(v action.Vote) string {
	if v.Privacy != "" {
		return "string"
	}
	switch v.Type {
	case "approval", "ranked-choice":
		return "uint32[]"
	case "quadratic", "weighted":
		return "string"
	default:
		return "uint32"
	}
}

// buildTypedData 组装消息对应的 typed data，并补充 from/timestamp。
func buildTypedData(msg action.Message, from string, timestamp int64) (TypedData, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return TypedData{}, fmt.Errorf("encode message: %w", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return TypedData{}, fmt.Errorf("decode message: %w", err)
	}
	body["from"] = from
	body["timestamp"] = timestamp

	var (
		primary string
		types   []TypeField
	)
	switch m := msg.(type) {
	case action.Proposal:
		primary = "Proposal"
		types = fields("from", "address", "space", "string", "timestamp", "uint64", "type", "string",
			"title", "string", "body", "string", "discussion", "string", "choices", "string[]",
			"start", "uint64", "end", "uint64", "snapshot", "uint64", "plugins", "string", "app", "string")
	case action.UpdateProposal:
		primary = "UpdateProposal"
		types = fields("proposal", proposalRefType(m.Proposal), "from", "address", "space", "string",
			"timestamp", "uint64", "type", "string", "title", "string", "body", "string",
			"discussion", "string", "choices", "string[]", "plugins", "string")
	case action.Vote:
		primary = "Vote"
		choiceType := voteChoiceType(m)
		if choiceType == "string" {
			if _, ok := m.Choice.(string); !ok {
				encoded, err := json.Marshal(m.Choice)
				if err != nil {
					return TypedData{}, fmt.Errorf("encode choice: %w", err)
				}
				body["choice"] = string(encoded)
			}
		}
		delete(body, "type")
		delete(body, "privacy")
		types = fields("from", "address", "space", "string", "timestamp", "uint64",
			"proposal", proposalRefType(m.Proposal), "choice", choiceType, "reason", "string", "app", "string")
	case action.CancelProposal:
		primary = "CancelProposal"
		types = fields("from", "address", "space", "string", "timestamp", "uint64", "proposal", proposalRefType(m.Proposal))
	case action.SpaceSettings:
		primary = "Space"
		types = fields("from", "address", "space", "string", "timestamp", "uint64", "settings", "string")
	case action.DeleteSpace:
		primary = "DeleteSpace"
		types = fields("from", "address", "space", "string", "timestamp", "uint64")
	case action.Statement:
		primary = "Statement"
		types = fields("from", "address", "timestamp", "uint64", "space", "string", "about", "string", "statement", "string")
	case action.FlagProposal:
		primary = "FlagProposal"
		types = fields("from", "address", "space", "string", "timestamp", "uint64", "proposal", proposalRefType(m.Proposal))
	default:
		return TypedData{}, fmt.Errorf("%w: %T", action.ErrUnknownAction, msg)
	}
	return TypedData{
		Domain:      defaultDomain,
		Types:       map[string][]TypeField{primary: types},
		PrimaryType: primary,
		Message:     body,
	}, nil
}
