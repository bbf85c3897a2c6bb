// Package live connects a frame source to a processing pipeline.
//
// A producer goroutine feeds frames into a single-slot mailbox that keeps
// only the newest frame; the consumer processes whatever is in the slot
// when it becomes free. Under overload older frames are discarded and
// counted, so the output always reflects the most recent capture.
//
// Frames travel over ZeroMQ as CBOR maps:
//
//	{"type": "frame", "id": 17, "source": "cam0", "width": 640, "height": 480,
//	 "pix": [r, g, b, r, g, b, ...]}
//
// where pix holds linear RGB as float32, row-major and interleaved.
package live
