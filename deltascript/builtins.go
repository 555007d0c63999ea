// ==============================================================================================
// FILE: deltascript/builtins.go
// ==============================================================================================
// PACKAGE: deltascript
// PURPOSE: The default native library registered on every Context unless WithBuiltins(false) is
//          passed: printing, string case conversion, splitting/joining, array append, and a
//          generic stringifier. These are plain host closures over value.Value frames, not
//          interpreter-core functionality -- the core (eval/lexer/value) stays dependency-free,
//          and these conveniences live at the embedding surface where a host is expected to wire
//          its own native functions in anyway.
// ==============================================================================================

package deltascript

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/d0si/deltascript/value"
)

func registerBuiltins(c *Context) {
	must := func(err error) {
		if err != nil {
			panic("deltascript: builtin registration failed: " + err.Error())
		}
	}

	must(c.RegisterNative("function print(msg)", nativePrint, nil))
	must(c.RegisterNative("function len(v)", nativeLen, nil))
	must(c.RegisterNative("function append(arr, item)", nativeAppend, nil))
	must(c.RegisterNative("function readLine(prompt)", nativeReadLine, nil))
	must(c.RegisterNative("function upper(s)", nativeUpper, nil))
	must(c.RegisterNative("function lower(s)", nativeLower, nil))
	must(c.RegisterNative("function split(s, sep)", nativeSplit, nil))
	must(c.RegisterNative("function join(arr, sep)", nativeJoin, nil))
	must(c.RegisterNative("function str(v)", nativeStr, nil))
}

func nativePrint(frame *value.Value, _ any) error {
	fmt.Println(frame.FindChild("msg").Value().AsString())
	return nil
}

func nativeLen(frame *value.Value, _ any) error {
	arg := frame.FindChild("v").Value()
	switch arg.Kind() {
	case value.Array:
		return bindReturn(frame, value.NewInt(arg.FindChild("length").Value().AsInt()))
	case value.String:
		return bindReturn(frame, value.NewInt(len(arg.AsString())))
	default:
		return fmt.Errorf("len: argument must be an array or string, got %s", arg.Kind())
	}
}

// nativeAppend returns a new Array with item inserted after arr's existing
// elements, matching the immutable-append style of the teacher's own
// append builtin (a fresh backing slice rather than an in-place grow).
func nativeAppend(frame *value.Value, _ any) error {
	arr := frame.FindChild("arr").Value()
	if !arr.IsArray() {
		return fmt.Errorf("append: first argument must be an array, got %s", arr.Kind())
	}
	item := frame.FindChild("item").Value()

	out := value.NewArray()
	n := 0
	for _, ref := range arr.Children() {
		out.AddChild(fmt.Sprintf("%d", n), ref.Value().DeepCopy())
		n++
	}
	out.AddChild(fmt.Sprintf("%d", n), item.DeepCopy())
	return bindReturn(frame, out)
}

func nativeReadLine(frame *value.Value, _ any) error {
	if prompt := frame.FindChild("prompt"); prompt != nil && prompt.Value().Kind() != value.Undefined {
		fmt.Print(prompt.Value().AsString() + " ")
	}
	reader := bufio.NewReader(os.Stdin)
	text, err := reader.ReadString('\n')
	if err != nil {
		return bindReturn(frame, value.NewNull())
	}
	return bindReturn(frame, value.NewString(strings.TrimSpace(text)))
}

func nativeUpper(frame *value.Value, _ any) error {
	return bindReturn(frame, value.NewString(strings.ToUpper(frame.FindChild("s").Value().AsString())))
}

func nativeLower(frame *value.Value, _ any) error {
	return bindReturn(frame, value.NewString(strings.ToLower(frame.FindChild("s").Value().AsString())))
}

func nativeSplit(frame *value.Value, _ any) error {
	s := frame.FindChild("s").Value().AsString()
	sep := frame.FindChild("sep").Value().AsString()

	out := value.NewArray()
	for i, part := range strings.Split(s, sep) {
		out.AddChild(fmt.Sprintf("%d", i), value.NewString(part))
	}
	return bindReturn(frame, out)
}

func nativeJoin(frame *value.Value, _ any) error {
	arr := frame.FindChild("arr").Value()
	if !arr.IsArray() {
		return fmt.Errorf("join: first argument must be an array, got %s", arr.Kind())
	}
	sep := frame.FindChild("sep").Value().AsString()

	var parts []string
	for _, ref := range arr.Children() {
		parts = append(parts, ref.Value().AsString())
	}
	return bindReturn(frame, value.NewString(strings.Join(parts, sep)))
}

func nativeStr(frame *value.Value, _ any) error {
	return bindReturn(frame, value.NewString(frame.FindChild("v").Value().AsString()))
}

// bindReturn assigns result into the call frame's "return" child, the
// contract every native callback uses to hand a value back to the caller.
func bindReturn(frame *value.Value, result *value.Value) error {
	return frame.FindChild("return").ReplaceWith(result)
}
