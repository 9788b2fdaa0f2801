package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tryanzu/gomarket/modules/exceptions"
)

func run(t *testing.T, conf string, args ...string) (string, error) {
	t.Helper()
	root, closeApp := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", conf}, args...))

	err := root.ExecuteContext(context.Background())
	if cerr := closeApp(context.Background()); err == nil {
		err = cerr
	}
	return out.String(), err
}

func TestCommands(t *testing.T) {
	Convey("Given a bolt backed config", t, func() {
		dir := t.TempDir()
		conf := filepath.Join(dir, "env.json")
		body := `{"log": {"level": "ERROR"}, "storage": {"driver": "bolt", "path": "` + filepath.ToSlash(filepath.Join(dir, "cart.db")) + `"}}`
		So(os.WriteFile(conf, []byte(body), 0o600), ShouldBeNil)

		Convey("the cart survives between invocations", func() {
			out, err := run(t, conf, "add", "--id", "p1", "--title", "Apple", "--price", "1.5")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "added p1 (x1)\n")

			out, err = run(t, conf, "inc", "p1")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "incremented p1 (x2)\n")

			out, err = run(t, conf, "list")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Apple")
			So(out, ShouldContainSubstring, "x2")
			So(out, ShouldContainSubstring, "2 units, total ")
		})

		Convey("add derives the id from the title", func() {
			out, err := run(t, conf, "add", "--title", "Pão de Queijo", "--price", "4")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "added pao-de-queijo (x1)\n")
		})

		Convey("add without id or title fails", func() {
			_, err := run(t, conf, "add", "--price", "4")
			So(err, ShouldNotBeNil)
		})

		Convey("dec of an unknown id is reported, not failed", func() {
			out, err := run(t, conf, "dec", "ghost")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "ghost is not in the cart\n")
		})

		Convey("dec of the last unit removes the line", func() {
			run(t, conf, "add", "--id", "p1", "--title", "Apple", "--price", "1.5")
			out, err := run(t, conf, "dec", "p1")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "removed p1\n")

			out, err = run(t, conf, "total")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "0 units, total ")
		})
	})

	Convey("An unknown storage driver fails the command", t, func() {
		conf := filepath.Join(t.TempDir(), "env.json")
		So(os.WriteFile(conf, []byte(`{"storage": {"driver": "floppy"}}`), 0o600), ShouldBeNil)

		_, err := run(t, conf, "list")
		So(err, ShouldNotBeNil)
	})
}

func TestGuard(t *testing.T) {
	Convey("Guarded commands still panic after reporting", t, func() {
		errs := exceptions.Boot(nil, nil)

		run := &cobra.Command{Use: "run", Run: func(*cobra.Command, []string) { panic("run") }}
		runE := &cobra.Command{Use: "rune", RunE: func(*cobra.Command, []string) error { panic("rune") }}
		guard(run, func() *exceptions.ExceptionsModule { return errs })
		guard(runE, func() *exceptions.ExceptionsModule { return errs })

		So(func() { run.Run(run, nil) }, ShouldPanicWith, "run")
		So(func() { runE.RunE(runE, nil) }, ShouldPanicWith, "rune")
	})

	Convey("A command run before boot is guarded without a reporter", t, func() {
		ok := &cobra.Command{Use: "ok", RunE: func(*cobra.Command, []string) error { return nil }}
		guard(ok, func() *exceptions.ExceptionsModule { return nil })

		So(ok.RunE(ok, nil), ShouldBeNil)
	})
}
