package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type BlockType string

const (
	BlockTypeText    BlockType = "text"
	BlockTypeHeader  BlockType = "header"
	BlockTypeImage   BlockType = "image"
	BlockTypeCTA     BlockType = "cta"
	BlockTypeSession BlockType = "session"
	BlockTypeFooter  BlockType = "footer"
)

// BlockContent is implemented by every block variant. The set is closed:
// renderers switch over the concrete types below.
type BlockContent interface {
	blockType() BlockType
}

type TextBlock struct {
	Content   string `json:"content"`
	Alignment string `json:"alignment,omitempty"`
	Color     string `json:"color,omitempty"`
}

type HeaderBlock struct {
	Title           string `json:"title"`
	Alignment       string `json:"alignment,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	ShowLogo        bool   `json:"showLogo,omitempty"`
	LogoURL         string `json:"logoUrl,omitempty"`
}

type ImageBlock struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	FullWidth bool   `json:"fullWidth,omitempty"`
}

type CTABlock struct {
	Text            string `json:"text"`
	URL             string `json:"url"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
}

type SessionBlock struct {
	ShowTitle    bool `json:"showTitle"`
	ShowDate     bool `json:"showDate"`
	ShowTime     bool `json:"showTime"`
	ShowLocation bool `json:"showLocation"`
	ShowPrice    bool `json:"showPrice"`
	ShowNotes    bool `json:"showNotes"`
}

type FooterBlock struct {
	Text string `json:"text"`
}

// UnknownBlock holds a block whose type is not recognised or whose content
// could not be decoded. It renders nothing.
type UnknownBlock struct {
	Type string          `json:"-"`
	Raw  json.RawMessage `json:"-"`
}

func (TextBlock) blockType() BlockType    { return BlockTypeText }
func (HeaderBlock) blockType() BlockType  { return BlockTypeHeader }
func (ImageBlock) blockType() BlockType   { return BlockTypeImage }
func (CTABlock) blockType() BlockType     { return BlockTypeCTA }
func (SessionBlock) blockType() BlockType { return BlockTypeSession }
func (FooterBlock) blockType() BlockType  { return BlockTypeFooter }
func (u UnknownBlock) blockType() BlockType {
	return BlockType(u.Type)
}

// Block is one unit of a message template.
type Block struct {
	ID      string
	Content BlockContent
}

func (b Block) Type() BlockType {
	if b.Content == nil {
		return ""
	}
	return b.Content.blockType()
}

type blockEnvelope struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

// UnmarshalJSON never fails on bad content; such blocks become UnknownBlock.
func (b *Block) UnmarshalJSON(data []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		b.Content = UnknownBlock{Raw: append(json.RawMessage(nil), data...)}
		return nil
	}
	b.ID = env.ID
	b.Content = decodeContent(BlockType(env.Type), env.Content)
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	env := blockEnvelope{ID: b.ID, Type: string(b.Type())}
	switch c := b.Content.(type) {
	case nil:
	case UnknownBlock:
		env.Content = c.Raw
	default:
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		env.Content = raw
	}
	return json.Marshal(env)
}

func decodeContent(t BlockType, raw json.RawMessage) BlockContent {
	unknown := UnknownBlock{Type: string(t), Raw: raw}
	if len(raw) == 0 || string(raw) == "null" {
		return unknown
	}

	var (
		content BlockContent
		err     error
	)
	switch t {
	case BlockTypeText:
		var c TextBlock
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockTypeHeader:
		var c HeaderBlock
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockTypeImage:
		var c ImageBlock
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockTypeCTA:
		var c CTABlock
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockTypeSession:
		var c SessionBlock
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockTypeFooter:
		var c FooterBlock
		err = json.Unmarshal(raw, &c)
		content = c
	default:
		return unknown
	}
	if err != nil {
		return unknown
	}
	return content
}

// Blocks is the ordered block list stored as JSONB on message_templates.
type Blocks []Block

func (b *Blocks) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*b = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported blocks source type %T", src)
	}
	if len(data) == 0 {
		*b = nil
		return nil
	}
	// A malformed document must not fail the whole workflow query; it
	// renders as an empty template.
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		*b = Blocks{}
		return nil
	}
	*b = blocks
	return nil
}

func (b Blocks) Value() (driver.Value, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Block(b))
}
