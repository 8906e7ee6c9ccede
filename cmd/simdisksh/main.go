// Command simdisksh is the interactive shell client for simdiskd.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/virtfs/virtfs/transport"
)

func prompt(uid uint8, wd string) {
	fmt.Printf("user%d:%s $ ", uid, wd)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func login(r *bufio.Reader) uint8 {
	for {
		fmt.Print("login (id in 0~255): ")
		line, err := readLine(r)
		if err != nil {
			os.Exit(1)
		}
		id, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Not a number!")
			continue
		}
		if id < 0 || id > 255 {
			fmt.Println("Your id is less than 0 or greater than 255!")
			continue
		}
		return uint8(id)
	}
}

func main() {
	addr := flag.String("addr", "localhost:7070", "simdiskd server address")
	flag.Parse()

	client, err := transport.Dial(*addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simdisksh: cannot connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer client.Close()

	stdin := bufio.NewReader(os.Stdin)
	uid := login(stdin)
	wd := "/"

	resp, err := client.Send(transport.NewRequest(uid, wd, "login"))
	if err == nil {
		wd = resp.WD
	}

	for {
		prompt(uid, wd)
		line, err := readLine(stdin)
		if err != nil {
			return
		}
		if strings.TrimSpace(line) == "exit" {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		resp, err := client.Send(transport.NewRequest(uid, wd, line))
		if err != nil {
			fmt.Fprintf(os.Stderr, "simdisksh: %v\n", err)
			return
		}
		if resp.Err != "" {
			fmt.Println(resp.Err)
		}
		fmt.Print(resp.Output)
		wd = resp.WD
	}
}
