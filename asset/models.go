package asset

// TruckOBJ is the built-in chassis model used when no model path is configured
// Cab and bed are separate groups so the renderer can shade them apart
const TruckOBJ = `# truck
o cab
v -1.0 -0.6  0.6
v  1.0 -0.6  0.6
v  1.0  1.2  0.6
v -1.0  1.2  0.6
v -1.0 -0.6  2.2
v  1.0 -0.6  2.2
v  1.0  1.2  2.2
v -1.0  1.2  2.2
f 1 2 3 4
f 5 6 7 8
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f 4 1 5 8
o bed
v -1.0 -0.6 -2.2
v  1.0 -0.6 -2.2
v  1.0  0.4 -2.2
v -1.0  0.4 -2.2
v -1.0 -0.6  0.6
v  1.0 -0.6  0.6
v  1.0  0.4  0.6
v -1.0  0.4  0.6
f 9 10 11 12
f 13 14 15 16
f 9 10 14 13
f 10 11 15 14
f 11 12 16 15
f 12 9 13 16
`

// GateOBJ is the built-in static scenery piece: two pillars and a lintel
const GateOBJ = `# gate
o pillar_left
v 2.5 0.0 -0.5
v 3.5 0.0 -0.5
v 3.5 4.0 -0.5
v 2.5 4.0 -0.5
v 2.5 0.0  0.5
v 3.5 0.0  0.5
v 3.5 4.0  0.5
v 2.5 4.0  0.5
f 1 2 3 4
f 5 6 7 8
o pillar_right
v -3.5 0.0 -0.5
v -2.5 0.0 -0.5
v -2.5 4.0 -0.5
v -3.5 4.0 -0.5
v -3.5 0.0  0.5
v -2.5 0.0  0.5
v -2.5 4.0  0.5
v -3.5 4.0  0.5
f 9 10 11 12
f 13 14 15 16
o lintel
v -3.5 4.0 -0.5
v  3.5 4.0 -0.5
v  3.5 5.0 -0.5
v -3.5 5.0 -0.5
v -3.5 4.0  0.5
v  3.5 4.0  0.5
v  3.5 5.0  0.5
v -3.5 5.0  0.5
f 17 18 19 20
f 21 22 23 24
`
