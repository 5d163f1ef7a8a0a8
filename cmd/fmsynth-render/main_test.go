package main

import "testing"

func TestCheckDeviceRate(t *testing.T) {
	if err := checkDeviceRate(44100, 44100); err != nil {
		t.Fatalf("matching rate rejected: %v", err)
	}
	if err := checkDeviceRate(44100, 48000); err == nil {
		t.Fatal("48000 Hz score accepted by a 44100 Hz device")
	}
}
