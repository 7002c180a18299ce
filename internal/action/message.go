package action

// Message 是 Build 的结果，每个 tag 对应一种具体类型。
type Message interface {
	Action() Tag
	SpaceID() string
}

// Proposal 对应 create-proposal。
type Proposal struct {
	Space      string   `json:"space"`
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Discussion string   `json:"discussion"`
	Choices    []string `json:"choices"`
	Start      int64    `json:"start"`
	End        int64    `json:"end"`
	Snapshot   int64    `json:"snapshot"`
	Plugins    string   `json:"plugins"`
	App        string   `json:"app"`
}

// UpdateProposal 对应 update-proposal。
type UpdateProposal struct {
	Proposal   string   `json:"proposal"`
	Space      string   `json:"space"`
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Discussion string   `json:"discussion"`
	Choices    []string `json:"choices"`
	Plugins    string   `json:"plugins"`
}

// Vote 对应 vote，Choice 的形状取决于投票类型。
type Vote struct {
	Space    string `json:"space"`
	Proposal string `json:"proposal"`
	Type     string `json:"type"`
	Choice   any    `json:"choice"`
	Privacy  string `json:"privacy"`
	App      string `json:"app"`
	Reason   string `json:"reason"`
}

// CancelProposal 对应 delete-proposal。
type CancelProposal struct {
	Space    string `json:"space"`
	Proposal string `json:"proposal"`
}

// SpaceSettings 对应 settings，Settings 为整个 payload 的 JSON。
type SpaceSettings struct {
	Space    string `json:"space"`
	Settings string `json:"settings"`
}

// DeleteSpace 对应 delete-space。
type DeleteSpace struct {
	Space string `json:"space"`
}

// Statement 对应 set-statement。
type Statement struct {
	Space     string `json:"space"`
	About     string `json:"about"`
	Statement string `json:"statement"`
}

// FlagProposal 对应 flag-proposal。
type FlagProposal struct {
	Space    string `json:"space"`
	Proposal string `json:"proposal"`
}

func (Proposal) Action() Tag       { return TagCreateProposal }
func (UpdateProposal) Action() Tag { return TagUpdateProposal }
func (Vote) Action() Tag           { return TagVote }
func (CancelProposal) Action() Tag { return TagDeleteProposal }
func (SpaceSettings) Action() Tag  { return TagSettings }
func (DeleteSpace) Action() Tag    { return TagDeleteSpace }
func (Statement) Action() Tag      { return TagSetStatement }
func (FlagProposal) Action() Tag   { return TagFlagProposal }

func (m Proposal) SpaceID() string       { return m.Space }
func (m UpdateProposal) SpaceID() string { return m.Space }
func (m Vote) SpaceID() string           { return m.Space }
func (m CancelProposal) SpaceID() string { return m.Space }
func (m SpaceSettings) SpaceID() string  { return m.Space }
func (m DeleteSpace) SpaceID() string    { return m.Space }
func (m Statement) SpaceID() string      { return m.Space }
func (m FlagProposal) SpaceID() string   { return m.Space }
