// Command sic is an offline harness around the client core: it feeds
// stdin lines through the protocol pipeline and prints the resulting
// wire output and buffer lines. Lines starting with "> " are treated as
// user input to the active buffer; everything else is handled as a raw
// server line. It is a debugging tool, not a transport.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Simple-Irc-Client/core"
)

func main() {
	var configPath string
	var nickname string
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.StringVar(&nickname, "nickname", "", "nick name to use")
	flag.Parse()

	cfg := core.Defaults()
	if configPath != "" {
		var err error
		cfg, err = core.LoadConfigFile(configPath)
		if err != nil {
			log.Fatalf("failed to read the configuration file: %v", err)
		}
	}
	if nickname != "" {
		cfg.Nick = nickname
	}
	if cfg.Nick == "" {
		cfg.Nick = "sic"
	}
	if cfg.User == "" {
		cfg.User = cfg.Nick
	}
	if cfg.Real == "" {
		cfg.Real = cfg.Nick
	}

	client := core.NewClient(cfg, func(line string) {
		fmt.Printf("<- %s\n", line)
	})
	client.Buffers().OnMessage(func(buffer string, msg core.Message) {
		nick := msg.Nick.String()
		if nick != "" {
			fmt.Printf("[%s] <%s> %s\n", buffer, nick, msg.Text)
		} else {
			fmt.Printf("[%s] -- %s\n", buffer, msg.Text)
		}
	})
	client.Register()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "> "):
			client.HandleInput(client.Buffers().Active(), line[2:])
		case strings.HasPrefix(line, ":buffer "):
			client.Buffers().SetActive(strings.TrimPrefix(line, ":buffer "))
		default:
			client.HandleLine(line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading stdin: %v", err)
	}
}
