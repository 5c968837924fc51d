/*
Package ports defines the driven and driving ports (interfaces) of the vending engine.

These interfaces decouple the automaton engine from the adapters that host it
(HTTP, MCP, terminal) and from the fan-out backends that carry run snapshots
to presentation layers.

# Key Interfaces

  - Engine: the in-process contract presentation adapters drive.
  - RunPublisher: receives every new run snapshot from the engine.
  - RunSubscriber: streams run snapshots to a presentation layer.
*/
package ports
