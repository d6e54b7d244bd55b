// seehuhn.de/go/aqt - a client library for out-of-process plot viewers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package graphic implements the retained document of a plot.
//
// A [Model] is an ordered list of graphic objects.  The order of the list is
// the paint order.  The object variants are [*Line], [*Polygon], [*Patch],
// [*Label], [*Image] and [*ClearRegion]; together they form the closed sum
// type [Object].  Each object carries a snapshot of the [Style] which was in
// effect when the object was created.
//
// Once appended to a model, the geometry of an object is immutable, with the
// single exception of the last object while it is marked as open.  Open lines
// and polygons can still be extended using [Model.Extend].
package graphic
