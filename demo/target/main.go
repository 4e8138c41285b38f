// Author: KleaSCM
// Email: KleaSCM@gmail.com
// File: main.go
// Description: Demo membership target for exec-based learning. Reads one word from stdin
// and exits 0 when it is a binary number divisible by three, 1 otherwise.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Member reports whether word is a multiple of 3 written in binary.
// The empty word counts as zero.
func Member(word string) (bool, error) {
	remainder := 0
	for i, c := range word {
		switch c {
		case '0':
			remainder = remainder * 2 % 3
		case '1':
			remainder = (remainder*2 + 1) % 3
		default:
			return false, fmt.Errorf("unexpected symbol %q at position %d", c, i)
		}
	}
	return remainder == 0, nil
}

func main() {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		// No newline at all still means the empty word
		line = os.Getenv("AUTOMATOR_WORD")
	}

	ok, err := Member(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !ok {
		os.Exit(1)
	}
}
