// Package zabbixctl reconciles monitoring objects on a Zabbix server.
//
// # Overview
//
// zabbixctl converges hosts, host groups and templates towards a desired
// state described on the command line or in a YAML manifest. Every operation
// reads the current state over the server's JSON-RPC API, compares it to the
// desired state and issues the minimal set of create, update and delete
// calls. Operations are idempotent and report changed/unchanged.
//
// # Architecture
//
//	┌──────────────────┐
//	│  CLI commands    │
//	│ (cobra, viper)   │
//	└────────┬─────────┘
//	         │
//	┌────────▼─────────┐
//	│   Reconcilers    │
//	│  (host, group,   │
//	│   template)      │
//	└────────┬─────────┘
//	         │
//	┌────────▼─────────┐
//	│ JSON-RPC client  │
//	│  (pkg/zabbix)    │
//	└──────────────────┘
//
// Execution is single-threaded and synchronous: one session per invocation,
// strictly sequential network calls, no retries. Every error is fatal to the
// current invocation and surfaced with a descriptive message.
package zabbixctl
