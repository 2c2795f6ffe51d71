// Package hamming generates regular numbers, the ascending numbers whose only
// prime factors are 2, 3 and 5, with a cyclic network of concurrently running
// nodes connected by blocking channels.
//
// # Network
//
// The network is fixed:
//
//	          +--> print1
//	          |
//	merge3 -> copy4 --> mult2 --+
//	  ^       |                 |
//	  |       +--> mult3 -------+
//	  |       |                 |
//	  |       +--> mult5 -------+
//	  |                         |
//	  +-------------------------+
//
// copy4 is seeded with 1. Every value copy4 receives goes to print1 and to
// the three multipliers, whose products are merged into one ascending,
// duplicate free stream that feeds copy4 again. print1 hands values to a
// kconsumer.Consumer until it has seen the configured count, then signals
// shutdown.
//
// # Basic Usage
//
//	n := hamming.New(hamming.WithConsumer(kconsumer.Writer(os.Stdout, kserde.Int64TextSerializer)))
//	if err := n.Configure(60, time.Minute); err != nil {
//	    return err
//	}
//	if err := n.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until the count is reached, the time budget is exhausted or
// ctx is done. Running out of time is not an error.
package hamming
