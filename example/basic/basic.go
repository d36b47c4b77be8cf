package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"

	"pantry"
	pantryrpc "pantry/rpc"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	conv := pantry.NewConverter(
		pantry.WithLogger(logger),
		pantry.WithUnit("dozen", pantry.CategoryCount, 12),
	)

	// Plain conversions
	fmt.Println("1 kg in g:", must(conv.Convert(1, pantry.UnitKilogram, pantry.UnitGram)))
	fmt.Println("16 oz in lb:", must(conv.Convert(16, pantry.UnitOunce, pantry.UnitPound)))
	fmt.Println("2 dozen in pcs:", must(conv.Convert(2, "dozen", pantry.UnitPiece)))
	// Mass to volume is incompatible: warned and passed through
	fmt.Println("1 kg in ml:", must(conv.Convert(1, pantry.UnitKilogram, pantry.UnitMilliliter)))

	tomorrow := time.Now().AddDate(0, 0, 1)
	items := []pantry.Item{
		{Name: "Onion", Quantity: 500, Unit: pantry.UnitGram},
		{Name: "onion ", Quantity: 1, Unit: pantry.UnitKilogram},
		{Name: "Egg", Quantity: 1, Unit: "dozen"},
		{Name: "Milk", Quantity: 0.5, Unit: pantry.UnitLiter, Expiration: &tomorrow},
	}
	p := pantry.NewPantry(items)

	ingredients := []pantry.Ingredient{
		{Name: "onion", Amount: ptr(1.4), Unit: pantry.UnitKilogram},
		{Name: "egg", Amount: ptr(6), Unit: pantry.UnitPiece},
		{Name: "milk", Amount: ptr(2), Unit: pantry.UnitCup},
		{Name: "salt"},
	}
	rm := pantry.NewMatcher(conv).MatchRecipe(p, ingredients)
	for _, r := range rm.Results {
		fmt.Printf("%-6s %-12s %.3f %s\n", r.Ingredient.Name, r.Status(), r.ConvertedTotal, r.Ingredient.Unit)
	}
	fmt.Println("can make:", rm.CanMake())
	for _, ing := range rm.Missing() {
		fmt.Println("buy:", pantry.ShoppingLabel(ing))
	}

	for _, it := range pantry.Recommend(items, []string{"egg"}, pantry.DefaultRecommendSettings(), time.Now()) {
		fmt.Printf("recommended: %s (%v %s)\n", it.Name, it.Quantity, it.Unit)
	}

	// Same match over pantryrpc, client and server joined by a pipe
	serverConn, clientConn := net.Pipe()
	srv := pantryrpc.NewServer(pantryrpc.NewHandler(conv, logger), logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.ServeConn(serverConn)
	}()

	client := pantryrpc.NewClient(clientConn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := client.Match(ctx, p.Lookup("onion"), ingredients[0])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("rpc: onion %s (%.3f kg)\n", res.Status(), res.ConvertedTotal)
	client.Close()
	<-done
}

func must(v float64, err error) float64 {
	if err != nil {
		panic(err)
	}
	return v
}

func ptr(v float64) *float64 {
	return &v
}
