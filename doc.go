/*
Package flow provides the building blocks for streaming data packets
through a graph of data transforming nodes.

Concept

A graph is composed of named nodes. Nodes come in three variants:

    Producer - a node that only emits packets;
    Consumer - a node that only receives packets;
    Transformer - a node that receives packets and emits new ones.

Nodes own typed pins. An output pin of one node is wired to an input pin
of another through a pipe, a bounded FIFO queue of packets. A packet
carries one element of the pin's type and an optional consumption time.

Execution

Every node runs on its own goroutine, spawned and joined by the graph.
A node is always in one of three states: started, paused or stopped.
Transitions are initiated by the graph only, through Start, Pause and
Stop. Starting transitions consumers first and producers last; pausing
and stopping go the other way around, so packets do not build up in
pipes ahead of the nodes that drain them.

A producer's body is invoked repeatedly while the node is started. A
consumer waits until a packet arrives at one of its input pins and is
then invoked once for every input with a packet waiting. A transformer
is driven like a consumer: its body pops from input pins and pushes to
output pins in the same call.

Wiring

Pipes are created when pins are connected and kept alive as long as
either pin holds on to them. Disconnecting one end leaves the pipe
attached to the other end, so packets queued for a consumer survive a
rewire to a new upstream node. Pipes can cap the number of packets and
the total number of bytes they hold; a push that would exceed a cap
fails and leaves the packet with the caller.
*/
package flow
