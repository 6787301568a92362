// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/thesix/Ram/machine"
	"github.com/thesix/Ram/ram"
)

func main() {
	var limit int
	var registers bool
	var verbose bool

	flag.IntVar(&limit, "l", machine.STEP_LIMIT, "Step limit")
	flag.BoolVar(&registers, "r", false, "Print the final register vector")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [-v] [-r] [-l limit] <program>", os.Args[0])
	}
	program := flag.Arg(0)

	inf, err := os.Open(program)
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}
	defer inf.Close()

	r := ram.NewRam()
	r.Verbose = verbose
	r.Machine.StepLimit = limit

	err = r.Load(inf)
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	final, err := r.Run()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("result(R)=%v, time(R)=%v, space(R)=%v\n", final[0], r.Time(), r.Space())
	if registers {
		for n, value := range final {
			fmt.Printf("R%d=%v\n", n, value)
		}
	}
}
