package shell

import (
	"github.com/abiosoft/ishell"
	"github.com/olebedev/config"
	"github.com/op/go-logging"
	"github.com/tryanzu/gomarket/modules/cart"

	cfg "github.com/tryanzu/gomarket/core/config"
)

// Shell is the interactive cart console. Cart and Log are filled by
// the inject graph.
type Shell struct {
	Cart   *cart.Cart                   `inject:""`
	Log    *logging.Logger              `inject:""`

	// ConfigFile is watched while the shell runs; Reload gets every new
	// version of it.
	ConfigFile string
	Reload     func(*config.Config)
}

// printer adapts ishell output to io.Writer.
type printer struct {
	out interface{ Print(...interface{}) }
}

func (p printer) Write(b []byte) (int, error) {
	p.out.Print(string(b))
	return len(b), nil
}

func (s *Shell) Run() {
	shell := ishell.New()
	shell.Println("GoMarket Interactive Shell 0.1")

	off := s.Cart.Subscribe(Feed(printer{shell}))
	defer off()

	stop := make(chan struct{})
	defer close(stop)
	if s.ConfigFile != "" && s.Reload != nil {
		if err := cfg.Watch(s.ConfigFile, stop, s.Reload); err != nil {
			s.Log.Warningf("config reload disabled: %v", err)
		}
	}

	shell.AddCmd(&ishell.Cmd{
		Name: "list",
		Help: "List cart lines.",
		Func: func(c *ishell.Context) {
			items := s.Cart.Products()
			List(printer{c}, items)
			c.Println(Summary(items))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "add",
		Help: "add <id> <title> <price> [image]",
		Func: s.mutation(Add),
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "inc",
		Help: "inc <id>",
		Func: s.mutation(Increment),
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "dec",
		Help: "dec <id>",
		Func: s.mutation(Decrement),
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "total",
		Help: "Show units and cart value.",
		Func: func(c *ishell.Context) {
			c.Println(Summary(s.Cart.Products()))
		},
	})

	shell.Run()
}

// mutation runs op with the command args. Effective changes are printed by
// the feed, so only misses and errors are printed here.
func (s *Shell) mutation(op func(*cart.Cart, []string) (cart.Result, error)) func(*ishell.Context) {
	return func(c *ishell.Context) {
		res, err := op(s.Cart, c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		if !res.Status.Changed() {
			c.Println(Describe(c.Args[0], res))
		}
	}
}
