package events

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBus(t *testing.T) {
	Convey("Given a bus with a recording handler", t, func() {
		bus := NewBus()
		defer bus.Close()

		var mu sync.Mutex
		var got []int
		off := bus.On("cart:change", func(e Event) {
			mu.Lock()
			got = append(got, e.Params["n"].(int))
			mu.Unlock()
		})

		Convey("events are delivered in emit order", func() {
			for i := 0; i < 100; i++ {
				bus.Emit(Event{Name: "cart:change", Params: map[string]interface{}{"n": i}})
			}
			bus.Drain()

			mu.Lock()
			defer mu.Unlock()
			So(len(got), ShouldEqual, 100)
			for i, n := range got {
				So(n, ShouldEqual, i)
			}
		})

		Convey("events for other names are ignored", func() {
			bus.Emit(Event{Name: "other", Params: map[string]interface{}{"n": 1}})
			bus.Drain()

			mu.Lock()
			defer mu.Unlock()
			So(got, ShouldBeEmpty)
		})

		Convey("a removed handler stops receiving events", func() {
			off()
			off()
			bus.Emit(Event{Name: "cart:change", Params: map[string]interface{}{"n": 1}})
			bus.Drain()

			mu.Lock()
			defer mu.Unlock()
			So(got, ShouldBeEmpty)
		})

		Convey("a panicking handler does not stop delivery", func() {
			bus.On("cart:change", func(Event) { panic("boom") })
			bus.Emit(Event{Name: "cart:change", Params: map[string]interface{}{"n": 7}})
			bus.Emit(Event{Name: "cart:change", Params: map[string]interface{}{"n": 8}})
			bus.Drain()

			mu.Lock()
			defer mu.Unlock()
			So(got, ShouldResemble, []int{7, 8})
		})

		Convey("a handler may emit without deadlocking", func() {
			bus.On("first", func(Event) {
				bus.Emit(Event{Name: "cart:change", Params: map[string]interface{}{"n": 42}})
			})
			bus.Emit(Event{Name: "first"})
			bus.Drain()

			mu.Lock()
			defer mu.Unlock()
			So(got, ShouldResemble, []int{42})
		})
	})
}

func TestBusClose(t *testing.T) {
	Convey("Closing a bus delivers queued events and drops later ones", t, func() {
		bus := NewBus()
		count := 0
		bus.On("e", func(Event) { count++ })
		bus.Emit(Event{Name: "e"})
		bus.Emit(Event{Name: "e"})
		bus.Close()
		So(count, ShouldEqual, 2)

		bus.Emit(Event{Name: "e"})
		bus.Close()
		So(count, ShouldEqual, 2)
	})
}
