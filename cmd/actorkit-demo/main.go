// Command actorkit-demo boots a small actor system and runs one of the
// kernel's seed scenarios end to end, for manual smoke-testing rather than
// as a production entry point.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexusrt/actorkit/actor"
)

var rootCmd = &cobra.Command{
	Use:   "actorkit-demo",
	Short: "Run actorkit's seed scenarios against a live actor system",
}

func main() {
	rootCmd.AddCommand(echoCmd, restartDemoCmd, fsmDemoCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type printMsg struct{ Text string }
type ackMsg struct{ Len int }

type echoActor struct{}

func (echoActor) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	p, ok := msg.(printMsg)
	if !ok {
		return false, nil
	}
	fmt.Printf("echo: %q\n", p.Text)
	ctx.Respond(ackMsg{Len: len(p.Text)})
	return true, nil
}

var echoCmd = &cobra.Command{
	Use:   "echo [text]",
	Short: "Tell an echo actor a line and print its ack reply",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := "Hello, actorkit"
		if len(args) == 1 {
			text = args[0]
		}

		sys := actor.NewActorSystem(actor.WithPoolSize(2))
		defer sys.Terminate()

		ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return echoActor{} }), "echo")
		if err != nil {
			return err
		}

		reply, err := ref.Ask(sys, printMsg{Text: text})
		if err != nil {
			return err
		}
		ack := reply.(ackMsg)
		fmt.Printf("ack: %d bytes\n", ack.Len)
		return nil
	},
}

type boomMsg struct{}
type pingMsg struct{}
type pongMsg struct{}

type flakyActor struct{}

func (flakyActor) PreStart(ctx actor.Context) {
	fmt.Println("flaky: pre_start")
}

func (flakyActor) PostStop(ctx actor.Context) {
	fmt.Println("flaky: post_stop")
}

func (flakyActor) PreFail(ctx actor.Context, err error, strategy actor.SupervisionStrategy) {
	fmt.Printf("flaky: pre_fail err=%v strategy=%s\n", err, strategy)
}

func (flakyActor) PostRestart(ctx actor.Context) {
	fmt.Println("flaky: post_restart")
}

func (flakyActor) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	switch msg.(type) {
	case boomMsg:
		return false, fmt.Errorf("boom")
	case pingMsg:
		fmt.Println("flaky: receive(ping)")
		ctx.Respond(pongMsg{})
		return true, nil
	}
	return false, nil
}

var restartDemoCmd = &cobra.Command{
	Use:   "restart-demo",
	Short: "Fail an actor with a Restart strategy and watch it recover",
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := actor.NewActorSystem(actor.WithPoolSize(2))
		defer sys.Terminate()

		props := actor.PropsFromProducer(func() actor.Actor { return flakyActor{} }).
			WithSupervisionStrategy(actor.Restart)
		ref, err := sys.ActorOf(props, "flaky")
		if err != nil {
			return err
		}

		ref.Tell(boomMsg{}, nil)
		reply, err := ref.AskTimeout(sys, 2*time.Second, pingMsg{})
		if err != nil {
			return err
		}
		if _, ok := reply.(pongMsg); ok {
			fmt.Println("restart-demo: actor recovered and answered ping")
		}
		return nil
	},
}

type trafficState int

const (
	red trafficState = iota
	green
	yellow
)

func (s trafficState) String() string {
	switch s {
	case red:
		return "red"
	case green:
		return "green"
	case yellow:
		return "yellow"
	default:
		return "unknown"
	}
}

type advanceMsg struct{}

type trafficLightActor struct {
	fsm *actor.FSM[trafficState, int]
}

func newTrafficLight() *trafficLightActor {
	t := &trafficLightActor{}
	t.fsm = actor.NewFSM[trafficState, int](red, 0)
	t.fsm.When(red, 300*time.Millisecond, func(msg interface{}, ctx actor.Context, cycles int) actor.FSMAction[trafficState, int] {
		return actor.GotoUsing[trafficState, int](green, cycles+1)
	})
	t.fsm.When(green, 300*time.Millisecond, func(msg interface{}, ctx actor.Context, cycles int) actor.FSMAction[trafficState, int] {
		return actor.Goto[trafficState, int](yellow)
	})
	t.fsm.When(yellow, 150*time.Millisecond, func(msg interface{}, ctx actor.Context, cycles int) actor.FSMAction[trafficState, int] {
		return actor.Goto[trafficState, int](red)
	})
	t.fsm.OnTransition(func(from, to trafficState) {
		fmt.Printf("traffic-light: %s -> %s\n", from, to)
	})
	return t
}

func (t *trafficLightActor) PreStart(ctx actor.Context) { t.fsm.Start(ctx) }

func (t *trafficLightActor) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	return t.fsm.Receive(ctx, msg)
}

var fsmDemoCmd = &cobra.Command{
	Use:   "fsm-demo",
	Short: "Run a traffic-light FSM through a few full cycles on its own timers",
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := actor.NewActorSystem(actor.WithPoolSize(2))
		defer sys.Terminate()

		light := newTrafficLight()
		_, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return light }), "traffic-light")
		if err != nil {
			return err
		}

		time.Sleep(2 * time.Second)
		state, cycles := light.fsm.State()
		fmt.Printf("fsm-demo: stopped at state=%s cycles=%d\n", state, cycles)
		return nil
	},
}
