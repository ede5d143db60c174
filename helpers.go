package ballot

import (
	"reflect"

	"github.com/resppiano/ballot/errors"
)

// assignMsg copies the value of msg into destination. The destination must be
// a pointer to the message type. Both pointer and value messages are
// accepted.
func assignMsg(msg Msg, destination interface{}) error {
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "destination must be a non nil pointer, got %T", destination)
	}
	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		if src.IsNil() {
			return errors.Wrap(errors.ErrInput, "nil message")
		}
		src = src.Elem()
	}
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %s message, got %T", dst.Elem().Type(), msg)
	}
	dst.Elem().Set(src)
	return nil
}
