package main

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer counts tokens in text content. Two backends are supported:
// tiktoken encodings (OpenAI models) and HuggingFace tokenizer files.
type Tokenizer interface {
	CountTokens(text string) int
	Close()
}

const (
	defaultTiktokenModel = "gpt-4o"
	defaultHFModel       = "gpt2"
)

// newTokenizer builds the backend selected by --tokenizer.
func newTokenizer(kind, model, file string) (Tokenizer, error) {
	switch strings.ToLower(kind) {
	case "tiktoken":
		return newTiktokenCounter(model)
	case "huggingface":
		return newHFCounter(model, file)
	default:
		return nil, fmt.Errorf("unsupported tokenizer %q: use 'tiktoken' or 'huggingface'", kind)
	}
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func newTiktokenCounter(model string) (Tokenizer, error) {
	if model == "" {
		model = defaultTiktokenModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Unknown model names fall back to the default encoding.
		enc, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		if err != nil {
			return nil, fmt.Errorf("loading tiktoken encoding for %q: %w", defaultTiktokenModel, err)
		}
	}
	return &tiktokenCounter{enc: enc}, nil
}

func (c *tiktokenCounter) CountTokens(text string) int {
	if c.enc == nil {
		return 0
	}
	return len(c.enc.EncodeOrdinary(text))
}

func (c *tiktokenCounter) Close() {}

type hfCounter struct {
	tok *hf.Tokenizer
}

func newHFCounter(model, file string) (Tokenizer, error) {
	if file != "" {
		tok, err := pretrained.FromFile(file)
		if err != nil {
			return nil, fmt.Errorf("loading tokenizer from %s: %w", file, err)
		}
		return &hfCounter{tok: tok}, nil
	}

	if model == "" {
		model = defaultHFModel
	}
	path, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("resolving tokenizer for model %s: %w", model, err)
	}
	tok, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading pretrained tokenizer for %s: %w", model, err)
	}
	return &hfCounter{tok: tok}, nil
}

func (c *hfCounter) CountTokens(text string) int {
	if c.tok == nil {
		return 0
	}
	en, err := c.tok.EncodeSingle(text)
	if err != nil {
		return 0
	}
	return len(en.Tokens)
}

func (c *hfCounter) Close() {}
