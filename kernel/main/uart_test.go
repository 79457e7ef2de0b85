package main

import "testing"

func TestUartRingBufferEmptyPop(t *testing.T) {
	var rb uartRingBuffer
	if !rb.isEmpty() {
		t.Fatal("a freshly zeroed ring buffer must be empty")
	}
	if _, ok := rb.pop(); ok {
		t.Fatal("pop on an empty ring buffer must report ok=false")
	}
}

func TestUartRingBufferPushPopOrder(t *testing.T) {
	var rb uartRingBuffer
	for _, c := range []byte("hello") {
		rb.push(c)
	}
	if rb.isEmpty() {
		t.Fatal("ring buffer should not be empty after pushes")
	}
	for _, want := range []byte("hello") {
		got, ok := rb.pop()
		if !ok || got != want {
			t.Fatalf("pop: got (%q, %v), want (%q, true)", got, ok, want)
		}
	}
	if !rb.isEmpty() {
		t.Fatal("ring buffer should be empty after popping every pushed byte")
	}
}

// TestUartRingBufferFullDropsSilently is UART-full
// scenario: rd==wt means empty, so the buffer can only ever hold
// uartRingSize-1 bytes; the next push must drop, not overwrite.
func TestUartRingBufferFullDropsSilently(t *testing.T) {
	var rb uartRingBuffer
	for i := 0; i < uartRingSize-1; i++ {
		rb.push(byte(i))
	}
	rb.push(0xFF) // buffer is now full; this push must be dropped

	for i := 0; i < uartRingSize-1; i++ {
		got, ok := rb.pop()
		if !ok || got != byte(i) {
			t.Fatalf("pop %d: got (0x%x, %v), want (0x%x, true)", i, got, ok, byte(i))
		}
	}
	if !rb.isEmpty() {
		t.Fatal("buffer should be drained after popping every byte it accepted")
	}
}

func TestUartRingBufferWrapsAround(t *testing.T) {
	var rb uartRingBuffer
	// Push and pop past the wrap point so rd/wt both cross the modulus.
	for i := 0; i < uartRingSize-1; i++ {
		rb.push(byte(i))
		if _, ok := rb.pop(); !ok {
			t.Fatalf("pop %d: expected ok", i)
		}
	}
	if !rb.isEmpty() {
		t.Fatal("buffer should be empty after matched push/pop pairs")
	}
	rb.push('a')
	rb.push('b')
	got, _ := rb.pop()
	if got != 'a' {
		t.Fatalf("after wraparound, first pop got %q, want 'a'", got)
	}
}
