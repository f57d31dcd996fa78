package notify

import (
	"sync"
	"time"

	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/hal"
)

// bootGate holds boot-delayed cable events until the platform finished
// booting. Its open and running flags live in the Notifier under admitMu.
type bootGate struct {
	wake    chan struct{}
	stop    chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
	running bool
}

// wakeBootGate re-evaluates the boot gate wait condition.
func (n *Notifier) wakeBootGate() {
	select {
	case n.gate.wake <- struct{}{}:
	default:
	}
}

// startBootGate must be called with admitMu held.
func (n *Notifier) startBootGate(delay time.Duration) {
	n.gate.running = true
	n.gate.wg.Add(1)
	go n.runBootGate(delay)
}

func (n *Notifier) stopBootGate() {
	n.admitMu.Lock()
	n.gate.stopped.Do(func() { close(n.gate.stop) })
	n.admitMu.Unlock()
	n.gate.wg.Wait()
}

// bootReady reports whether the platform reported a lock state or a VBUS
// cable is waiting, either of which ends the wait after the boot delay.
func (n *Notifier) bootReady() bool {
	snap := n.store.Snapshot()
	return snap.Lock != cable.LockInit || snap.Reserved.Base() == event.Vbus
}

func (n *Notifier) runBootGate(delay time.Duration) {
	defer n.gate.wg.Done()

	if delay > 0 {
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-n.gate.stop:
			t.Stop()
			return
		}
	}

	deadline := time.NewTimer(n.cfg.BootGateTimeout)
	defer deadline.Stop()
wait:
	for !n.bootReady() {
		select {
		case <-n.gate.wake:
		case <-deadline.C:
			n.logger().Warn("boot gate wait timed out, opening anyway", "timeout", n.cfg.BootGateTimeout)
			break wait
		case <-n.gate.stop:
			return
		}
	}

	n.admitMu.Lock()
	n.gate.running = false
	if n.syncUSB {
		n.admitMu.Unlock()
		n.debugLog("boot gate waits for EnableUSB")
		return
	}
	n.gateOpen = true
	reserved := n.store.TakeReserved()
	if reserved != event.None && event.Classify(reserved).Has(event.CapState) {
		n.debugLog("replaying reserved event", "event", reserved.String())
		if err := n.enqueue(workItem{ev: reserved, enable: true}); err != nil {
			n.logger().Warn("reserved event not replayed", "event", reserved.String(), "error", err)
		}
	}
	n.admitMu.Unlock()

	n.debugLog("boot delay finished")
	if !n.store.Snapshot().SkipPossibleUSB {
		n.notifyExternal(hal.ExternalPossibleUSB, 1)
	}
}

// reserve parks a boot-delayed event. It must be called with admitMu held.
// The slot holds one event; a later reservation replaces it and a disable
// empties it.
func (n *Notifier) reserve(ev event.Event, enable bool, caps event.Capabilities) {
	if enable {
		n.store.SetReserved(ev)
	} else {
		n.store.SetReserved(event.None)
	}
	if enable && caps.Has(event.CapNeedClient) {
		n.wakeBootGate()
	}
	n.debugLog("reserved event", "event", ev.String(), "enable", enable)
}

// BootGateOpen reports whether boot-delayed events are applied directly.
func (n *Notifier) BootGateOpen() bool {
	n.admitMu.Lock()
	defer n.admitMu.Unlock()
	return n.gateOpen
}

// EnableUSB releases a boot gate held by BootingDelaySyncUSB once the USB
// controller finished probing. It does nothing otherwise.
func (n *Notifier) EnableUSB() {
	n.admitMu.Lock()
	defer n.admitMu.Unlock()
	if !n.syncUSB {
		return
	}
	n.syncUSB = false
	n.debugLog("usb controller ready, releasing boot gate")
	if !n.gateOpen && !n.gate.running {
		select {
		case <-n.gate.stop:
			return
		default:
		}
		n.startBootGate(0)
	}
}
