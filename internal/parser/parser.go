// Package parser implements the recursive descent parser that turns the
// filtered instruction stream into an AST.
package parser

import (
	"iter"

	"github.com/orizon-lang/bfc/internal/ast"
	"github.com/orizon-lang/bfc/internal/errors"
	"github.com/orizon-lang/bfc/internal/source"
)

// DefaultMaxDepth bounds loop nesting, and with it the parser's recursion.
const DefaultMaxDepth = 4096

// Options controls bracket handling.
type Options struct {
	// Lenient ignores a stray "]" at top level and closes an unterminated
	// "[" at end of input instead of reporting UNMATCHED_BRACKET.
	Lenient bool
	// MaxDepth is the deepest loop nesting accepted. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Parser represents the recursive descent parser
type Parser struct {
	next     func() (source.Token, bool)
	stop     func()
	opts     Options
	nextID   int
	depth    int
	consumed int
}

// NewParser creates a parser over tokens. The parser owns the block-id
// counter, so every parser numbers its blocks from 0.
func NewParser(tokens iter.Seq[source.Token], opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	next, stop := iter.Pull(tokens)
	return &Parser{next: next, stop: stop, opts: opts}
}

// Parse is shorthand for a strict parse of tokens.
func Parse(tokens iter.Seq[source.Token]) ([]ast.Node, error) {
	return NewParser(tokens, Options{}).Parse()
}

// Parse consumes the entire input and returns the top-level nodes.
func (p *Parser) Parse() ([]ast.Node, error) {
	defer p.stop()
	return p.parseSequence(nil)
}

// Consumed returns how many tokens the parser has read.
func (p *Parser) Consumed() int { return p.consumed }

// Blocks returns how many block ids have been handed out.
func (p *Parser) Blocks() int { return p.nextID }

// parseSequence parses nodes until the "]" closing open, or until end of
// input. open is nil at top level.
func (p *Parser) parseSequence(open *source.Token) ([]ast.Node, error) {
	var nodes []ast.Node
	for {
		tok, ok := p.next()
		if !ok {
			if open != nil && !p.opts.Lenient {
				return nil, errors.UnmatchedBracket(open.Pos, source.OpenLoop)
			}
			return nodes, nil
		}
		p.consumed++

		switch tok.Char {
		case source.OpenLoop:
			block, err := p.parseBlock(tok)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, block)
		case source.CloseLoop:
			if open != nil {
				return nodes, nil
			}
			if !p.opts.Lenient {
				return nil, errors.UnmatchedBracket(tok.Pos, source.CloseLoop)
			}
		case source.Left:
			nodes = append(nodes, &ast.Move{At: tok.Pos, Delta: -1})
		case source.Right:
			nodes = append(nodes, &ast.Move{At: tok.Pos, Delta: 1})
		case source.Inc:
			nodes = append(nodes, &ast.Inc{At: tok.Pos, Delta: 1})
		case source.Dec:
			nodes = append(nodes, &ast.Inc{At: tok.Pos, Delta: -1})
		case source.ReadByte:
			nodes = append(nodes, &ast.Read{At: tok.Pos})
		case source.WriteByte:
			nodes = append(nodes, &ast.Write{At: tok.Pos})
		default:
			return nil, errors.UnexpectedCharacter(tok.Pos, tok.Char)
		}
	}
}

// parseBlock takes the next id before descending, so ids follow the order
// of opening brackets.
func (p *Parser) parseBlock(open source.Token) (*ast.Block, error) {
	if p.depth >= p.opts.MaxDepth {
		return nil, errors.NestingTooDeep(open.Pos, p.opts.MaxDepth)
	}
	id := p.nextID
	p.nextID++

	p.depth++
	body, err := p.parseSequence(&open)
	p.depth--
	if err != nil {
		return nil, err
	}
	return &ast.Block{At: open.Pos, ID: id, Body: body}, nil
}
