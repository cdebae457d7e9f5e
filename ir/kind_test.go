package ir

import "testing"

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		d, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(d); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", d, err)
		}
		if back != k {
			t.Errorf("round trip %s: got %s", k, back)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("structoid")); err == nil {
		t.Error("UnmarshalText accepted an unknown kind")
	}
}

func TestKindClasses(t *testing.T) {
	if !Long.IsPrimitive() || Record.IsPrimitive() {
		t.Error("IsPrimitive misclassifies")
	}
	if !Record.IsNamed() || Array.IsNamed() {
		t.Error("IsNamed misclassifies")
	}
	if !Union.IsCompound() || Fixed.IsCompound() {
		t.Error("IsCompound misclassifies")
	}
}
