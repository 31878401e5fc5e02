package tagring_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/tagring"
)

// Example_insert demonstrates inserting values of different kinds.
func Example_insert() {
	ix, err := tagring.New()
	if err != nil {
		log.Fatal(err)
	}
	defer ix.Close()

	ctx := context.Background()
	for _, v := range []tagring.Value{
		tagring.Int(42),
		tagring.String("banana"),
		tagring.Float(3.25),
		tagring.String("apple"),
		tagring.Int(-7),
	} {
		if err := ix.Insert(ctx, v); err != nil {
			log.Fatal(err)
		}
	}

	if err := ix.Dump(os.Stdout); err != nil {
		log.Fatal(err)
	}
	// Output:
	// str: apple
	// str: banana
	// int: -7
	// int: 42
	// float: 3.25
}

// Example_partition demonstrates iterating one kind in sort order.
func Example_partition() {
	ix, _ := tagring.New(tagring.WithNodeCount(2))
	defer ix.Close()

	ctx := context.Background()
	for _, i := range []int64{10, 5, 20, 1, 15} {
		_ = ix.Insert(ctx, tagring.Int(i))
	}

	var values []tagring.Value
	for v := range ix.Partition(tagring.KindInt) {
		values = append(values, v)
	}
	fmt.Println(values)
	fmt.Println("ranges:", ix.Stats().Partitions[1].Ranges)
	// Output:
	// [1 5 10 15 20]
	// ranges: [2 2 1]
}

// Example_unregisteredType demonstrates the error for a kind without a partition.
func Example_unregisteredType() {
	ix, _ := tagring.New()
	defer ix.Close()

	err := ix.Insert(context.Background(), tagring.Raw(9, []byte("?")))
	fmt.Println(errors.Is(err, tagring.ErrUnregisteredType), ix.Len())
	// Output: true 0
}

// Example_metrics demonstrates collecting operation metrics.
func Example_metrics() {
	metrics := &tagring.BasicMetricsCollector{}
	ix, _ := tagring.Builder().
		NodeCount(4).
		Metrics(metrics).
		Build()

	ctx := context.Background()
	for i := range 9 {
		_ = ix.Insert(ctx, tagring.Int(int64(i)))
	}
	_ = ix.Close()

	stats := metrics.GetStats()
	fmt.Printf("inserts=%d splits=%d closes=%d\n", stats.InsertCount, stats.SplitCount, stats.CloseCount)
	// Output: inserts=9 splits=3 closes=1
}
