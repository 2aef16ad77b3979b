// fake_bridge.go simulates the LhmBridge.exe --daemon line protocol for
// tests. Each stdin line is a JSON query; each response is one JSON line.
//
// Behavior is controlled by the FAKE_BRIDGE_MODE env var:
//
//	"normal" - respond to each query with sample sensors (default)
//	"error"  - respond with an error payload
//	"crash"  - exit after the first response
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

type request struct {
	HardwareType string `json:"HardwareType"`
	SensorType   string `json:"SensorType"`
}

type sensor struct {
	Name  string  `json:"Name"`
	Value float64 `json:"Value"`
}

type response struct {
	Sensors []sensor `json:"Sensors"`
	Error   string   `json:"error,omitempty"`
}

var samples = map[string][]sensor{
	"CPU/Temperature": {
		{Name: "CPU Core #1", Value: 52},
		{Name: "CPU Core #2", Value: 56},
		{Name: "Core Max", Value: 60},
	},
	"SuperIO/Fan": {
		{Name: "Fan #1", Value: 1321},
		{Name: "Fan #2", Value: 0},
	},
	"SuperIO/Voltage": {
		{Name: "CPU VCore", Value: 1.26},
		{Name: "+3.3V", Value: 3.3},
	},
}

func main() {
	mode := os.Getenv("FAKE_BRIDGE_MODE")
	if mode == "" {
		mode = "normal"
	}

	scanner := bufio.NewScanner(os.Stdin)
	responses := 0

	for scanner.Scan() {
		var req request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			b, _ := json.Marshal(response{Error: "bad request: " + err.Error()})
			fmt.Println(string(b))
			continue
		}

		var resp response
		switch mode {
		case "error":
			resp = response{Error: "sensor read failed"}
		default:
			resp = response{Sensors: samples[req.HardwareType+"/"+req.SensorType]}
		}

		b, _ := json.Marshal(resp)
		fmt.Println(string(b))
		responses++

		if mode == "crash" && responses >= 1 {
			os.Exit(1)
		}
	}
}
