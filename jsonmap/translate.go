package jsonmap

import (
	"errors"

	"github.com/lattice-substrate/json-mapper/jsonerr"
)

// classify decides, once, what a failure observed at the current frame is:
//   - the failure this write call already classified: returned as is
//   - a failure the sink returned, whatever its type: Transport, returned as is
//   - a *jsonerr.MappingError from a nested write: returned as is
//   - an I/O-typed failure (see jsonerr.IsTransport): Transport, returned as is
//   - anything else: wrapped in a *jsonerr.MappingError at the current path
//
// The outcome is recorded on the Encoder so enclosing frames recognise the
// failure instead of classifying it again.
func (e *Encoder) classify(err error) error {
	if e.fault != nil && errors.Is(err, e.fault) {
		return err
	}
	var class jsonerr.Class
	if e.sink.failed != nil && errors.Is(err, e.sink.failed) {
		class = jsonerr.Transport
	} else {
		class = jsonerr.Classify(err)
	}
	if class == jsonerr.Other {
		err = jsonerr.Wrap(e.path, err)
		class = jsonerr.Mapping
	}
	e.fault, e.class = err, class
	return err
}

// emit classifies the result of a sink append made by the engine itself.
func (e *Encoder) emit(err error) error {
	if err == nil {
		return nil
	}
	return e.classify(err)
}

// call runs a value writer supplied by the application. A panic inside it is
// recovered and classified like a returned error. If the sink failed while
// the writer ran, that failure is the result, whatever the writer returned.
// A writer that returns without error must have written exactly one value.
func (e *Encoder) call(write func() error) (err error) {
	depth, values := e.sink.depth(), e.sink.values()
	defer func() {
		if r := recover(); r != nil {
			err = e.classify(e.sinkFailure(panicCause(r)))
		}
	}()
	if err := write(); err != nil {
		return e.classify(e.sinkFailure(err))
	}
	if e.sink.failed != nil {
		return e.classify(e.sink.failed)
	}
	if e.sink.depth() != depth || e.sink.values() != values+1 {
		return e.classify(&StructureError{Msg: "value writer must write exactly one value"})
	}
	return nil
}

// sinkFailure returns the sink's failure in place of err when the sink has
// failed and err does not already carry it.
func (e *Encoder) sinkFailure(err error) error {
	if e.sink.failed == nil || errors.Is(err, e.sink.failed) {
		return err
	}
	return e.sink.failed
}
