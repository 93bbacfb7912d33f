// Command client is a minimal OE test client, adapted from the
// teacher's binary test harness onto OE's tag=value wire format: it
// logs on, sends a single NewOrderSingle, and prints whatever
// ExecutionReports come back.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"ironbook/internal/oe/codec"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the ironbook OE listener")
	senderCompID := flag.String("sender", "CLIENT1", "SenderCompID to log on with")
	targetCompID := flag.String("target", "IRONBOOK", "TargetCompID to log on with")
	symbol := flag.String("symbol", "BTC-USD", "symbol to trade")
	sideStr := flag.String("side", "buy", "order side: buy or sell")
	ordTypeStr := flag.String("type", "limit", "order type: market or limit")
	price := flag.String("price", "100.00", "limit price (ignored for market orders)")
	qty := flag.String("qty", "10", "order quantity")
	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s as %s\n", *serverAddr, *senderCompID)

	go readReports(conn)

	if _, err := conn.Write(logon(*senderCompID, *targetCompID)); err != nil {
		log.Fatalf("logon failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	side := codec.SideBuy
	if strings.EqualFold(*sideStr, "sell") {
		side = codec.SideSell
	}
	ordType := codec.OrdTypeLimit
	if strings.EqualFold(*ordTypeStr, "market") {
		ordType = codec.OrdTypeMarket
	}

	if _, err := conn.Write(newOrderSingle(*symbol, side, ordType, *price, *qty)); err != nil {
		log.Printf("failed to send order: %v", err)
	} else {
		fmt.Printf("-> sent %s %s %s %s @ %s\n", strings.ToUpper(*sideStr), *qty, *symbol, strings.ToUpper(*ordTypeStr), *price)
	}

	fmt.Println("listening for reports... (Ctrl+C to exit)")
	select {}
}

func logon(senderCompID, targetCompID string) []byte {
	return codec.Encode(codec.BeginString, []codec.Field{
		{Tag: codec.TagMsgType, Value: codec.MsgTypeLogon},
		{Tag: codec.TagSenderCompID, Value: senderCompID},
		{Tag: codec.TagTargetCompID, Value: targetCompID},
		{Tag: codec.TagHeartBtInt, Value: "30"},
	})
}

var clOrdIDSeq int

func newOrderSingle(symbol, side, ordType, price, qty string) []byte {
	clOrdIDSeq++
	fields := []codec.Field{
		{Tag: codec.TagMsgType, Value: codec.MsgTypeNewOrderSingle},
		{Tag: codec.TagClOrdID, Value: "cli-" + strconv.Itoa(clOrdIDSeq)},
		{Tag: codec.TagSymbol, Value: symbol},
		{Tag: codec.TagSide, Value: side},
		{Tag: codec.TagOrderQty, Value: qty},
		{Tag: codec.TagOrdType, Value: ordType},
		{Tag: codec.TagTimeInForce, Value: codec.TIFGTC},
	}
	if ordType == codec.OrdTypeLimit {
		fields = append(fields, codec.Field{Tag: codec.TagPrice, Value: price})
	}
	return codec.Encode(codec.BeginString, fields)
}

// readReports drains raw bytes off conn, splits them into complete OE
// frames and prints whatever ExecutionReports arrive.
func readReports(conn net.Conn) {
	buf := make([]byte, 4096)
	var pending []byte
	for {
		n, err := conn.Read(buf)
		if err != nil {
			log.Printf("connection closed: %v", err)
			os.Exit(0)
		}
		pending = append(pending, buf[:n]...)

		var frames [][]byte
		frames, pending = codec.ExtractFrames(pending)
		for _, frame := range frames {
			msg, err := codec.Parse(frame)
			if err != nil {
				log.Printf("parse error: %v", err)
				continue
			}
			printReport(msg)
		}
	}
}

func printReport(msg *codec.Message) {
	mtype, _ := msg.MsgType()
	if mtype != codec.MsgTypeExecutionReport {
		fmt.Printf("[MSG %s]\n", mtype)
		return
	}

	execType, _ := msg.Get(codec.TagExecType)
	symbol, _ := msg.Get(codec.TagSymbol)

	if execType == codec.ExecStatusRejected {
		text, _ := msg.Get(codec.TagText)
		fmt.Printf("[REJECTED] %s: %s\n", symbol, text)
		return
	}

	lastQty, _ := msg.Get(codec.TagLastQty)
	lastPx, _ := msg.Get(codec.TagLastPx)
	fmt.Printf("[EXEC %s] %s qty=%s px=%s\n", execType, symbol, lastQty, lastPx)
}
