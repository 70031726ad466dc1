//go:build darwin

package capture

/*
#cgo darwin CFLAGS: -x objective-c -fmodules -fobjc-arc
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

extern CGEventRef deskctlHandleEvent(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static CFRunLoopSourceRef deskctlStartTap(uintptr_t handle, CGEventMask mask, CFMachPortRef *tapOut) {
	CFMachPortRef tap = CGEventTapCreate(kCGSessionEventTap,
	                                     kCGHeadInsertEventTap,
	                                     kCGEventTapOptionListenOnly,
	                                     mask,
	                                     deskctlHandleEvent,
	                                     (void *)handle);
	if (tap == NULL) {
		return NULL;
	}
	CGEventTapEnable(tap, true);
	*tapOut = tap;
	return CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
}

static CGEventMask deskctlMaskBit(CGEventType t) {
	return ((CGEventMask)1) << t;
}

static double deskctlEventX(CGEventRef e) { return CGEventGetLocation(e).x; }
static double deskctlEventY(CGEventRef e) { return CGEventGetLocation(e).y; }

static int64_t deskctlKeycode(CGEventRef e) {
	return CGEventGetIntegerValueField(e, kCGKeyboardEventKeycode);
}

static int64_t deskctlClickState(CGEventRef e) {
	return CGEventGetIntegerValueField(e, kCGMouseEventClickState);
}

static double deskctlScrollDeltaY(CGEventRef e) {
	return CGEventGetDoubleValueField(e, kCGScrollWheelEventDeltaAxis1);
}

static double deskctlScrollDeltaX(CGEventRef e) {
	return CGEventGetDoubleValueField(e, kCGScrollWheelEventDeltaAxis2);
}

static CGEventFlags deskctlEventFlags(CGEventRef e) { return CGEventGetFlags(e); }

static CFRunLoopRef deskctlCurrentRunLoop(void) { return CFRunLoopGetCurrent(); }
static void deskctlAddSource(CFRunLoopRef loop, CFRunLoopSourceRef src) {
	CFRunLoopAddSource(loop, src, kCFRunLoopCommonModes);
}
static void deskctlRun(void) { CFRunLoopRun(); }
static void deskctlStop(CFRunLoopRef loop) { CFRunLoopStop(loop); }
*/
import "C"

import (
	"runtime"
	"runtime/cgo"
	"sync"
	"time"
	"unsafe"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// darwinTap owns the CGEventTap run loop. One darwinTap exists per Start
// call; it is torn down entirely on Stop, matching the selfspy/limitless
// pattern of treating the tap as scoped to a single recording session
// rather than a global singleton.
type darwinTap struct {
	raw      chan<- rawEvent
	loop     C.CFRunLoopRef
	stopOnce sync.Once
}

func (t *darwinTap) stopLoop() {
	t.stopOnce.Do(func() {
		C.deskctlStop(t.loop)
	})
}

func darwinStartTap(raw chan<- rawEvent, stop <-chan struct{}, done func()) error {
	if perms, _ := checkDarwinPermissions(); !perms.Accessibility {
		return deskerr.New(deskerr.CodePermissionDenied, "accessibility permission not granted").
			WithSuggestions("enable accessibility in System Settings > Privacy & Security > Accessibility")
	}

	tap := &darwinTap{raw: raw}
	handle := cgo.NewHandle(tap)

	ready := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		installed := false
		defer func() {
			if installed {
				done()
			}
		}()
		defer handle.Delete()

		mask := C.deskctlMaskBit(C.kCGEventKeyDown) |
			C.deskctlMaskBit(C.kCGEventLeftMouseDown) |
			C.deskctlMaskBit(C.kCGEventRightMouseDown) |
			C.deskctlMaskBit(C.kCGEventOtherMouseDown) |
			C.deskctlMaskBit(C.kCGEventMouseMoved) |
			C.deskctlMaskBit(C.kCGEventLeftMouseDragged) |
			C.deskctlMaskBit(C.kCGEventRightMouseDragged) |
			C.deskctlMaskBit(C.kCGEventScrollWheel)

		var machPort C.CFMachPortRef
		source := C.deskctlStartTap(C.uintptr_t(handle), mask, &machPort)
		if source == 0 {
			ready <- deskerr.New(deskerr.CodeActionFailed, "failed to create CGEvent tap")
			return
		}
		defer C.CFRelease(C.CFTypeRef(source))
		defer C.CFRelease(C.CFTypeRef(machPort))

		loop := C.deskctlCurrentRunLoop()
		tap.loop = loop
		C.deskctlAddSource(loop, source)

		installed = true
		ready <- nil

		watcherDone := make(chan struct{})
		go func() {
			select {
			case <-stop:
				tap.stopLoop()
			case <-watcherDone:
			}
		}()

		C.deskctlRun()
		close(watcherDone)
	}()

	return <-ready
}

//export deskctlHandleEvent
func deskctlHandleEvent(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	h := cgo.Handle(uintptr(userInfo))
	tap, ok := h.Value().(*darwinTap)
	if !ok {
		return event
	}

	now := time.Now()
	flags := C.deskctlEventFlags(event)
	mods := darwinFlagsToMods(flags)

	var re rawEvent
	switch eventType {
	case C.kCGEventKeyDown:
		re = rawEvent{kind: rawKeyDown, t: now, keycode: uint16(C.deskctlKeycode(event)), mods: mods}
	case C.kCGEventLeftMouseDown, C.kCGEventRightMouseDown, C.kCGEventOtherMouseDown:
		btn := workflow.ButtonLeft
		switch eventType {
		case C.kCGEventRightMouseDown:
			btn = workflow.ButtonRight
		case C.kCGEventOtherMouseDown:
			btn = workflow.ButtonMiddle
		}
		clicks := int(C.deskctlClickState(event))
		if clicks < 1 {
			clicks = 1
		}
		re = rawEvent{
			kind: rawMouseDown, t: now,
			x: int(C.deskctlEventX(event)), y: int(C.deskctlEventY(event)),
			button: btn, clicks: clicks, mods: mods,
		}
	case C.kCGEventMouseMoved, C.kCGEventLeftMouseDragged, C.kCGEventRightMouseDragged:
		re = rawEvent{kind: rawMouseMove, t: now, x: int(C.deskctlEventX(event)), y: int(C.deskctlEventY(event))}
	case C.kCGEventScrollWheel:
		re = rawEvent{
			kind: rawScroll, t: now,
			x: int(C.deskctlEventX(event)), y: int(C.deskctlEventY(event)),
			dx: int(C.deskctlScrollDeltaX(event)), dy: int(C.deskctlScrollDeltaY(event)),
		}
	default:
		return event
	}

	select {
	case tap.raw <- re:
	default:
	}
	return event
}

// darwinFlagsToMods maps the CGEventFlags modifier bits into
// workflow.Modifiers - everything else (numeric pad, help key) has no
// place in the wire format.
func darwinFlagsToMods(flags C.CGEventFlags) workflow.Modifiers {
	var m workflow.Modifiers
	if flags&C.kCGEventFlagMaskShift != 0 {
		m |= workflow.ModShift
	}
	if flags&C.kCGEventFlagMaskControl != 0 {
		m |= workflow.ModCtrl
	}
	if flags&C.kCGEventFlagMaskAlternate != 0 {
		m |= workflow.ModOpt
	}
	if flags&C.kCGEventFlagMaskCommand != 0 {
		m |= workflow.ModCmd
	}
	if flags&C.kCGEventFlagMaskAlphaShift != 0 {
		m |= workflow.ModCaps
	}
	if flags&C.kCGEventFlagMaskSecondaryFn != 0 {
		m |= workflow.ModFn
	}
	return m
}

func init() {
	startTapFunc = darwinStartTap
}
