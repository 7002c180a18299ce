package action

import (
	"errors"
	"fmt"
)

// Tag 选择一次 dispatch 调用要执行的远端操作。
type Tag string

const (
	TagCreateProposal Tag = "create-proposal"
	TagUpdateProposal Tag = "update-proposal"
	TagVote           Tag = "vote"
	TagDeleteProposal Tag = "delete-proposal"
	TagSettings       Tag = "settings"
	TagDeleteSpace    Tag = "delete-space"
	TagSetStatement   Tag = "set-statement"
	TagFlagProposal   Tag = "flag-proposal"
)

var knownTags = []Tag{
	TagCreateProposal,
	TagUpdateProposal,
	TagVote,
	TagDeleteProposal,
	TagSettings,
	TagDeleteSpace,
	TagSetStatement,
	TagFlagProposal,
}

var (
	// ErrUnknownAction 表示 tag 不在已知集合内。
	ErrUnknownAction = errors.New("unknown action")
	// ErrMissingField 表示 payload 缺少必需的嵌套结构。
	ErrMissingField = errors.New("payload field missing")
)

// Tags 返回全部已知 tag。
func Tags() []Tag {
	out := make([]Tag, len(knownTags))
	copy(out, knownTags)
	return out
}

// Known 判断 tag 是否属于已知集合。
func (t Tag) Known() bool {
	for _, k := range knownTags {
		if t == k {
			return true
		}
	}
	return false
}

func (t Tag) String() string { return string(t) }

// Space 标识动作作用的目标集合，单次调用内不可变。
type Space struct {
	ID string `json:"id"`
}

// Build 将宽松的 payload 归一化为 tag 对应的消息。
func Build(tag Tag, space Space, app string, payload Payload) (Message, error) {
	if !tag.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, tag)
	}
	if payload == nil {
		payload = Payload{}
	}
	plugins, err := Plugins(payload)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagCreateProposal:
		return Proposal{
			Space:      space.ID,
			Type:       payload.String("type"),
			Title:      payload.String("name"),
			Body:       payload.String("body"),
			Discussion: payload.String("discussion"),
			Choices:    payload.Strings("choices"),
			Start:      payload.Int("start"),
			End:        payload.Int("end"),
			Snapshot:   payload.Int("snapshot"),
			Plugins:    plugins,
			App:        app,
		}, nil
	case TagUpdateProposal:
		return UpdateProposal{
			Proposal:   payload.String("id"),
			Space:      space.ID,
			Type:       payload.String("type"),
			Title:      payload.String("name"),
			Body:       payload.String("body"),
			Discussion: payload.String("discussion"),
			Choices:    payload.Strings("choices"),
			Plugins:    plugins,
		}, nil
	case TagVote:
		proposal, ok := payload.Object("proposal")
		if !ok {
			return nil, fmt.Errorf("%w: proposal", ErrMissingField)
		}
		return Vote{
			Space:    space.ID,
			Proposal: proposal.String("id"),
			Type:     proposal.String("type"),
			Choice:   payload["choice"],
			Privacy:  payload.String("privacy"),
			App:      app,
			Reason:   payload.String("reason"),
		}, nil
	case TagDeleteProposal:
		proposal, ok := payload.Object("proposal")
		if !ok {
			return nil, fmt.Errorf("%w: proposal", ErrMissingField)
		}
		return CancelProposal{Space: space.ID, Proposal: proposal.String("id")}, nil
	case TagSettings:
		settings, err := payload.JSON()
		if err != nil {
			return nil, err
		}
		return SpaceSettings{Space: space.ID, Settings: settings}, nil
	case TagDeleteSpace:
		return DeleteSpace{Space: space.ID}, nil
	case TagSetStatement:
		return Statement{
			Space:     space.ID,
			About:     payload.String("about"),
			Statement: payload.String("statement"),
		}, nil
	case TagFlagProposal:
		proposal, ok := payload.Object("proposal")
		if !ok {
			return nil, fmt.Errorf("%w: proposal", ErrMissingField)
		}
		return FlagProposal{Space: space.ID, Proposal: proposal.String("id")}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, tag)
}
