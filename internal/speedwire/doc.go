// Package speedwire implements the core SMA Speedwire binary protocol: the
// UDP wire format spoken by SMA photovoltaic inverters and energy meters.
//
// This includes the outer packet framing, the energy-meter broadcast codec,
// the inverter request/response sub-protocol (Identify, Login, Logout,
// GetDayData), and the any-message discriminator that identifies an inbound
// datagram from its fourCC, protocol tag, and opcode.
package speedwire
