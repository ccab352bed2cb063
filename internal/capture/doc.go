// Package capture turns a stream of polled pointer positions into finished
// traces.
//
// A [Recorder] is driven one poll cycle at a time. It waits until the
// pointer moves, appends every changed position, and declares the trace
// finished once the position has stayed the same for EndTimeout
// consecutive cycles. [Recorder.Run] drives the cycles from a ticker at
// FrameRate; [Replay] drives them from a recorded poll sequence.
//
// Positions come from a [PositionSource]: a [ScriptedSource] for recorded
// sequences, or a [StreamSource] reading "x,y" lines from a device such as
// a serial port opened with [OpenSerial].
//
// Recorders are not safe for concurrent use. The trace handed out by
// [Recorder.Finish] belongs to the caller.
package capture
