// Package binding maps the service's named logical channels onto broker
// destinations and provides the outbound channel used to publish payloads.
//
//	stream:
//	  bindings:
//	    greetings-out:
//	      destination: greetings
//	    greetings-in:
//	      destination: greetings
//	      group: greetings-group
package binding
