// ==============================================================================================
// FILE: eval/eval_integration_test.go
// ==============================================================================================
// PURPOSE: Exercises the pieces that only make sense wired together: a host-registered native
//          function called from script, recursive script function calls across a growing scope
//          stack, member access with this-binding, and the prototype-chain fallback on member miss.
// ==============================================================================================

package eval

import (
	"testing"

	"github.com/d0si/deltascript/lexer"
	"github.com/d0si/deltascript/value"
)

func TestIntegrationNativeCallbackCapturesHostBuffer(t *testing.T) {
	var captured []string

	root := value.NewObject()
	root.AddChild("print", value.NewNativeFunction([]string{"msg"}, func(frame *value.Value, _ any) error {
		captured = append(captured, frame.FindChild("msg").Value().AsString())
		return nil
	}, nil))

	lex, err := lexer.New(`
		print("hello");
		print("world");
	`)
	if err != nil {
		t.Fatalf("lexer.New: %v", err)
	}
	if err := NewEvaluator(lex, root).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(captured) != 2 || captured[0] != "hello" || captured[1] != "world" {
		t.Errorf("FAIL: captured = %v, want [hello world]", captured)
	}
}

func TestIntegrationRecursiveFactorial(t *testing.T) {
	root := runScript(t, `
		function fact(n) {
			if (n <= 1) {
				return 1;
			}
			return n * fact(n - 1);
		}
		var result = fact(5);
	`)
	if got := root.FindChild("result").Value().AsInt(); got != 120 {
		t.Errorf("FAIL: fact(5) = %d, want 120", got)
	}
	fn := root.FindChild("fact").Value()
	if fn.ExecutionCount() != 5 {
		t.Errorf("FAIL: fact was called %d times, want 5", fn.ExecutionCount())
	}
}

func TestIntegrationFactoryReturnedObjectIsMutable(t *testing.T) {
	root := runScript(t, `
		function makeCounter() {
			var c = {};
			c.count = 0;
			return c;
		}
		var counter = makeCounter();
		counter.count = counter.count + 1;
		counter.count = counter.count + 1;
	`)
	counter := root.FindChild("counter").Value()
	if got := counter.FindChild("count").Value().AsInt(); got != 2 {
		t.Errorf("FAIL: counter.count = %d, want 2", got)
	}
}

func TestIntegrationThisBoundOnMethodCall(t *testing.T) {
	root := runScript(t, `
		function getValue() {
			return this.value;
		}
		var obj = {};
		obj.value = 42;
		obj.getValue = getValue;
		var result = obj.getValue();
	`)
	if got := root.FindChild("result").Value().AsInt(); got != 42 {
		t.Errorf("FAIL: obj.getValue() = %d, want 42 (this.value should see obj.value)", got)
	}
}

func TestIntegrationPrototypeChainFallbackThroughCall(t *testing.T) {
	root := value.NewObject()
	proto := value.NewObject()
	proto.AddChild("label", value.NewString("base"))

	instance := value.NewObject()
	instance.AddChild("prototype", proto)
	root.AddChild("obj", instance)

	lex, err := lexer.New(`var x = obj.label;`)
	if err != nil {
		t.Fatalf("lexer.New: %v", err)
	}
	if err := NewEvaluator(lex, root).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := root.FindChild("x").Value().AsString(); got != "base" {
		t.Errorf("FAIL: x = %q, want \"base\" (via prototype fallback)", got)
	}
}

// TestIntegrationPrototypeChainWalksMultipleLevels confirms resolveMember
// keeps walking prototype-of-prototype links rather than stopping after
// one hop.
func TestIntegrationPrototypeChainWalksMultipleLevels(t *testing.T) {
	root := value.NewObject()
	grandproto := value.NewObject()
	grandproto.AddChild("label", value.NewString("grand"))

	proto := value.NewObject()
	proto.AddChild("prototype", grandproto)

	instance := value.NewObject()
	instance.AddChild("prototype", proto)
	root.AddChild("obj", instance)

	lex, err := lexer.New(`var x = obj.label;`)
	if err != nil {
		t.Fatalf("lexer.New: %v", err)
	}
	if err := NewEvaluator(lex, root).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := root.FindChild("x").Value().AsString(); got != "grand" {
		t.Errorf("FAIL: x = %q, want \"grand\" (via two-level prototype fallback)", got)
	}
}

func TestIntegrationFunctionArgumentsPassByValueForScalars(t *testing.T) {
	root := runScript(t, `
		function bump(n) {
			n = n + 1;
			return n;
		}
		var x = 1;
		var y = bump(x);
	`)
	if got := root.FindChild("x").Value().AsInt(); got != 1 {
		t.Errorf("FAIL: x = %d, want 1 (scalar args are passed by value)", got)
	}
	if got := root.FindChild("y").Value().AsInt(); got != 2 {
		t.Errorf("FAIL: y = %d, want 2", got)
	}
}
