package twstyle

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// NewConverter returns an initialized instance of Converter. The out param
// indicates where output is written, it must not be nil. Names given to
// @apply are compiled with c.
func NewConverter(out io.Writer, c *Compiler) *Converter {
	if out == nil {
		panic(fmt.Errorf("twstyle.Converter.out is nil, cannot continue"))
	}
	if c == nil {
		panic(fmt.Errorf("twstyle.Converter compiler is nil, cannot continue"))
	}
	return &Converter{
		out: out,
		c:   c,
		log: c.log.Named("converter"),
	}
}

// Converter processes CSS input files and writes a single output CSS
// file with the @apply and @utilities directives processed.
// Inputs are processed in the order they are added (see e.g. AddReader()).
type Converter struct {
	out       io.Writer
	inputs    []*input
	c         *Compiler
	log       *zap.Logger
	utilities func(w io.Writer) error
	postProc  func(out io.Writer, in io.Reader) error
	*applier  // initialized as needed
}

type input struct {
	name     string    // display file name
	r        io.Reader // read input from here
	isInline bool
}

// AddReader adds an input source. The name is used only in error
// messages to indicate the source. And r is the CSS source to be processed,
// it must not be nil. If isInline it indicates this CSS is from an HTML
// style attribute, otherwise it's from the contents of a style tag or a
// standalone CSS file.
func (c *Converter) AddReader(name string, r io.Reader, isInline bool) {
	if r == nil {
		panic(fmt.Errorf("twstyle.Converter.AddReader(%q, r): r is nil, cannot continue", name))
	}
	c.inputs = append(c.inputs, &input{name: name, r: r, isInline: isInline})
}

// SetUtilitiesFunc sets the function that writes the compiled utility
// rules wherever an input says "@utilities;". Typically this is the
// WriteTo method of a twsheet.Sheet. Without it the directive is dropped.
func (c *Converter) SetUtilitiesFunc(f func(w io.Writer) error) {
	c.utilities = f
}

// SetPostProcFunc sets a function that is called to post-process the
// output of the conversion, e.g. minification. Output is buffered and
// only handed to f once every input converted without error.
func (c *Converter) SetPostProcFunc(f func(out io.Writer, in io.Reader) error) {
	c.postProc = f
}

// Run performs the conversion. The output is written to the writer
// specified in NewConverter().
func (c *Converter) Run() (reterr error) {

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if ok {
				reterr = e
			} else {
				reterr = fmt.Errorf("%v", r)
			}
		}
	}()

	if c.postProc != nil {
		var buf bytes.Buffer
		if err := c.run(&buf); err != nil {
			return err
		}
		return c.postProc(c.out, &buf)
	}
	return c.run(c.out)
}

func (c *Converter) run(out io.Writer) (reterr error) {
	w := bufio.NewWriter(out)
	defer func() { // ensure we always flush, and record the error if no other
		err := w.Flush()
		if err != nil && reterr == nil {
			reterr = err
		}
	}()

	for _, in := range c.inputs {
		p := css.NewParser(parse.NewInput(in.r), in.isInline)
		err := c.runParse(in.name, p, w)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Converter) runParse(name string, p *css.Parser, w io.Writer) error {

	for {

		gt, _, data := p.Next()

		switch gt {

		case css.ErrorGrammar:
			err := p.Err()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%s: %w", name, err)

		case css.AtRuleGrammar:

			switch {

			case bytes.Equal(data, []byte("@utilities")):
				if len(trimTokenWs(p.Values())) != 0 {
					return fmt.Errorf("%s: @utilities takes no arguments, found: %v", name, p.Values())
				}
				if c.utilities == nil {
					c.log.Debug("no utilities writer, dropping @utilities", zap.String("input", name))
					continue
				}
				if err := c.utilities(w); err != nil {
					return fmt.Errorf("%s: writing utilities: %w", name, err)
				}

			case bytes.Equal(data, []byte("@apply")):

				if c.applier == nil {
					c.applier = newApplier(c.c)
				}

				names := applyNames(p.Values())
				if len(names) == 0 {
					return fmt.Errorf("%s: @apply should be followed by at least one class name", name)
				}

				b, err := c.applier.apply(names)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}

				_, err = w.Write(b)
				if err != nil {
					return err
				}

			default: // other @ rules just get copied verbatim
				err := write(w, data, p.Values(), ';')
				if err != nil {
					return err
				}

			}

		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			err := write(w, data, p.Values(), '{')
			if err != nil {
				return err
			}

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			err := write(w, data, ':', p.Values(), ';')
			if err != nil {
				return err
			}

		case css.QualifiedRuleGrammar:
			// selector lists such as "b,strong {" arrive one
			// QualifiedRuleGrammar per item before the ruleset
			err := write(w, p.Values(), ',')
			if err != nil {
				return err
			}

		case css.TokenGrammar:
			continue // just skip

		case css.CommentGrammar:
			continue // strip comments

		case css.EndRulesetGrammar, css.EndAtRuleGrammar:
			err := write(w, data)
			if err != nil {
				return err
			}

		default: // verify we aren't missing a type
			panic(fmt.Errorf("%s: unexpected grammar type %v", name, gt))

		}

	}

}

// a general purpose write so we can just do one error check
func write(w io.Writer, what ...interface{}) error {
	for _, i := range what {

		var err error
		switch v := i.(type) {

		case byte:
			_, err = fmt.Fprintf(w, "%c", v)

		case rune:
			_, err = fmt.Fprintf(w, "%c", v)

		case []byte:
			_, err = w.Write(v)

		case []css.Token:
			err = writeTokens(w, v...)

		default:
			_, err = fmt.Fprint(w, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeTokens(w io.Writer, tokens ...css.Token) error {
	for _, val := range tokens {
		_, err := w.Write(val.Data)
		if err != nil {
			return err
		}
	}
	return nil
}

func trimTokenWs(tokens []css.Token) []css.Token {
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
